package trust

import (
	"crypto/subtle"
	"net"

	"github.com/fieldops/apigate/pkg/config"
	"github.com/sirupsen/logrus"
)

// Checker identifies requests from trusted internal sources before any
// limiting runs. The decision is a small explicit allow-list (shared secret
// header or known source network), never role based: roles are not known
// until after authentication and trust must be decided pre-auth.
type Checker interface {
	IsTrusted(secretHeader string, remoteAddr string) bool
}

type checker struct {
	logger   *logrus.Logger
	secret   string
	networks []*net.IPNet
}

func NewChecker(logger *logrus.Logger, cfg config.TrustConfig) Checker {
	var networks []*net.IPNet
	for _, cidr := range cfg.Networks {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			logger.WithField("cidr", cidr).WithError(err).Warn("invalid trusted network, skipping")
			continue
		}
		networks = append(networks, network)
	}
	return &checker{
		logger:   logger,
		secret:   cfg.Secret,
		networks: networks,
	}
}

func (c *checker) IsTrusted(secretHeader string, remoteAddr string) bool {
	if c.secret != "" && secretHeader != "" {
		if subtle.ConstantTimeCompare([]byte(secretHeader), []byte(c.secret)) == 1 {
			return true
		}
	}

	if len(c.networks) == 0 {
		return false
	}
	ip := net.ParseIP(remoteAddr)
	if ip == nil {
		return false
	}
	for _, network := range c.networks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
