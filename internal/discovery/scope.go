package discovery

import (
	"strings"

	"github.com/jonesrussell/godiscover/internal/domain"
	"github.com/jonesrussell/godiscover/internal/urlnorm"
)

// DeclaredHostScope resolves a source's allowed hosts from the domains
// declared on the source record, plus the homepage's own host so
// relative links always stay in scope. A source declaring no domains
// is unrestricted.
type DeclaredHostScope struct{}

// AllowedHosts implements HostScopeResolver. Hosts are matched exactly
// after lowercasing; declare both apex and www forms when a site
// serves from both.
func (DeclaredHostScope) AllowedHosts(source *domain.Source) map[string]struct{} {
	if len(source.AllowedDomains) == 0 {
		return nil
	}

	hosts := make(map[string]struct{}, len(source.AllowedDomains)+1)
	for _, d := range source.AllowedDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			hosts[d] = struct{}{}
		}
	}
	if homeHost, err := urlnorm.Host(source.URL); err == nil {
		hosts[homeHost] = struct{}{}
	}
	return hosts
}
