package burp

import (
	"strings"

	"github.com/google/uuid"
)

// UniqueSiteName appends a short random suffix to name so repeated runs
// against the same target do not collide in the site tree.
func UniqueSiteName(name string) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return name + "-" + suffix
}
