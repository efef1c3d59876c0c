package fragment

import (
	"io"
	"os"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/ascii"
	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
)

// gridProbeLimit bounds how much of a page file is read for configuration
// properties, which sit in the file header.
const gridProbeLimit = 50000

// ParseGridConfig returns the standard grid configuration with the step
// sizes overridden by gridX/gridY properties when the content defines them.
func ParseGridConfig(content string) design.GridConfig {
	cfg := design.DefaultGridConfig()
	if v, ok := ascii.FindProp(content, "gridX"); ok {
		cfg.XStep = atoiDefault(v, cfg.XStep)
	}
	if v, ok := ascii.FindProp(content, "gridY"); ok {
		cfg.YStep = atoiDefault(v, cfg.YStep)
	}
	return cfg
}

// ParseGridConfigFile probes a page geometry file's header for grid
// overrides. A missing or unreadable file yields the defaults.
func ParseGridConfigFile(path string) design.GridConfig {
	f, err := os.Open(path)
	if err != nil {
		return design.DefaultGridConfig()
	}
	defer f.Close()

	buf := make([]byte, gridProbeLimit)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return design.DefaultGridConfig()
	}
	return ParseGridConfig(string(buf[:n]))
}

func atoiDefault(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}
