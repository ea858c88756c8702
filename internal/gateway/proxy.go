package gateway

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.uber.org/zap"
)

// NewReverseProxy builds a single-host proxy for one downstream service,
// answering 502 when the service cannot be reached.
func NewReverseProxy(target string, log *zap.Logger) (http.Handler, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}

	p := httputil.NewSingleHostReverseProxy(u)
	p.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		if log != nil {
			log.Warn("proxy error",
				zap.String("target", target),
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
		}
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}

	return p, nil
}
