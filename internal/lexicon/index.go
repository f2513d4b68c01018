package lexicon

import (
	"fmt"

	"github.com/ppiankov/edgarscan/internal/model"
)

// Index bundles the lexicons used to score a document: the general term
// dictionary, the named-entity dictionary and the trigger set.
// Build it once and share it read-only between workers.
type Index struct {
	General *Lexicon
	Entity  *Lexicon
	Trigger TriggerSet
}

// NewIndex creates an index; nil lexicons are treated as empty
func NewIndex(general, entity *Lexicon, trigger TriggerSet) *Index {
	if general == nil {
		general = New("general", nil)
	}
	if entity == nil {
		entity = New("entity", nil)
	}
	return &Index{General: general, Entity: entity, Trigger: trigger}
}

// LoadIndex loads both lexicons and the trigger set described by cfg
func LoadIndex(cfg model.LexiconConfig) (*Index, error) {
	trigger, err := TriggerSetFor(cfg.TriggerMode)
	if err != nil {
		return nil, err
	}

	var general, entity *Lexicon
	if cfg.GeneralPath != "" {
		if general, err = LoadFile(cfg.GeneralPath, cfg.CSVColumn); err != nil {
			return nil, fmt.Errorf("general lexicon: %w", err)
		}
	}
	if cfg.EntityPath != "" {
		if entity, err = LoadFile(cfg.EntityPath, cfg.EntityColumn); err != nil {
			return nil, fmt.Errorf("entity lexicon: %w", err)
		}
	}

	return NewIndex(general, entity, trigger), nil
}
