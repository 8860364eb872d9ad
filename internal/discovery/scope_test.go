package discovery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/godiscover/internal/discovery"
)

func TestDeclaredHostScope(t *testing.T) {
	resolver := discovery.DeclaredHostScope{}

	t.Run("no declared domains means unrestricted", func(t *testing.T) {
		hosts := resolver.AllowedHosts(testSource())
		assert.Empty(t, hosts)
	})

	t.Run("declared domains plus homepage host", func(t *testing.T) {
		source := testSource()
		source.URL = "https://news.example.com"
		source.AllowedDomains = []string{"Example.com", " www.example.com ", ""}

		hosts := resolver.AllowedHosts(source)

		assert.Len(t, hosts, 3)
		assert.Contains(t, hosts, "example.com")
		assert.Contains(t, hosts, "www.example.com")
		assert.Contains(t, hosts, "news.example.com",
			"the homepage host is always in scope for relative links")
	})
}
