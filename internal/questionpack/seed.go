package questionpack

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seeds/core.yml
var defaultSeedContents []byte

// DefaultSeed returns the starter question pack bundled with the binary, so
// `trainer seed` works on a fresh install without a configured seed file or
// a reachable pack registry. Its entries carry stable IDs, so re-running the
// import is idempotent.
func DefaultSeed() (Pack, error) {
	var pack Pack
	if err := yaml.Unmarshal(defaultSeedContents, &pack); err != nil {
		return pack, fmt.Errorf("yaml.Unmarshal > %w", err)
	}
	return pack, nil
}
