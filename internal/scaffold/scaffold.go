package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jorge-barreto/srcparam/internal/state"
	"github.com/jorge-barreto/srcparam/internal/ux"
)

var configTemplate = `# srcparam configuration. Every field is optional; the values below are the defaults.

limits:
  tool-speed-max: 139.8          # TOOL_RPM ceiling
  feed-rate-max: 2.0             # $VEL.CP ceiling
  feed-rate-confirm-above: 0.5   # $VEL.CP values above this need confirmation
  cooling-max: 200               # LAYER_COOLING ceiling

# Condition written in front of inserted TOOL_RPM and ACT_DRIVE statements:
#   TRIGGER WHEN DISTANCE=<distance> DELAY=<delay> DO TOOL_RPM=<value>
trigger:
  distance: 0
  delay: 0

output-suffix: _modified         # part.src -> part_modified.src
changelog-suffix: _changelog     # part_modified.src -> part_modified_changelog.txt

log:
  level: warn                    # debug, info, warn, error
  file: ""                       # empty logs to stderr
`

var planTemplate = `name: example
steps:
  - op: bind
    progress: 50
    kind: TOOL_RPM
    value: 80

  - op: bind
    z: 0.4
    kind: LAYER_COOLING
    value: 100

  - op: unbind
    z: 0.4
    kind: LAYER_COOLING
`

// Init creates a new .srcparam/ directory with a commented config and an example plan.
func Init(targetDir string) error {
	dir := filepath.Join(targetDir, state.DirName)
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("%s directory already exists in %s", state.DirName, targetDir)
	}

	plansDir := filepath.Join(dir, "plans")
	if err := os.MkdirAll(plansDir, 0755); err != nil {
		return fmt.Errorf("creating %s/plans: %w", state.DirName, err)
	}

	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config.yaml: %w", err)
	}

	planPath := filepath.Join(plansDir, "example.yaml")
	if err := os.WriteFile(planPath, []byte(planTemplate), 0644); err != nil {
		return fmt.Errorf("writing example.yaml: %w", err)
	}

	fmt.Printf("\n%s%s✓ Initialized %s/ directory%s\n\n", ux.Bold, ux.Green, state.DirName, ux.Reset)
	fmt.Printf("  Created:\n")
	fmt.Printf("    %s%s/config.yaml%s         limits, trigger template, naming\n", ux.Cyan, state.DirName, ux.Reset)
	fmt.Printf("    %s%s/plans/example.yaml%s  example batch edit plan\n\n", ux.Cyan, state.DirName, ux.Reset)
	fmt.Printf("  Next steps:\n")
	fmt.Printf("    1. Run %ssrcparam open <file.src>%s to start editing\n", ux.Cyan, ux.Reset)
	fmt.Printf("    2. Run %ssrcparam params%s to list the parameters found\n", ux.Cyan, ux.Reset)
	fmt.Printf("    3. Run %ssrcparam docs quickstart%s for a walkthrough\n\n", ux.Cyan, ux.Reset)

	return nil
}
