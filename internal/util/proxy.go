package util

import (
	"net/http"
	"net/url"

	"github.com/ppiankov/edgarscan/internal/model"
)

// NewProxyFunc creates a proxy function from the HTTP configuration.
// Without explicit proxies it falls back to HTTP_PROXY/HTTPS_PROXY/NO_PROXY.
func NewProxyFunc(cfg model.HTTPConfig) func(*http.Request) (*url.URL, error) {
	httpProxy, httpsProxy := cfg.HTTPProxy, cfg.HTTPSProxy
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// NewHTTPClient returns a client for filing downloads using the configured
// timeout and proxies
func NewHTTPClient(cfg model.HTTPConfig) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = NewProxyFunc(cfg)

	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}
}
