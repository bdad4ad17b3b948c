package docs

var topics = []Topic{
	{
		Name:    "quickstart",
		Title:   "Quick Start",
		Summary: "Open a program, edit parameters, save",
		Content: topicQuickstart,
	},
	{
		Name:    "params",
		Title:   "Parameter Kinds",
		Summary: "The four recognized statements, their forms and limits",
		Content: topicParams,
	},
	{
		Name:    "anchors",
		Title:   "Anchors and Bindings",
		Summary: "Binding parameters to Z heights and progress markers",
		Content: topicAnchors,
	},
	{
		Name:    "history",
		Title:   "Undo and Redo",
		Summary: "The single-step history and what survives between commands",
		Content: topicHistory,
	},
	{
		Name:    "plans",
		Title:   "Edit Plans",
		Summary: "Batch edits from a YAML file, applied as one undo step",
		Content: topicPlans,
	},
	{
		Name:    "config",
		Title:   "Configuration Reference",
		Summary: "Config file schema, fields, and defaults",
		Content: topicConfig,
	},
	{
		Name:    "output",
		Title:   "Output and Change Log",
		Summary: "What save writes and where",
		Content: topicOutput,
	},
}

const topicQuickstart = `QUICK START

srcparam edits the tool speed, feed rate, cooling and drive statements of a
robot motion program (.src) without touching any other byte of the file.

  srcparam init                 create .srcparam/ with a commented config
  srcparam open part.src        start a session on part.src
  srcparam params               list every parameter with its line
  srcparam set "Feed Rate ($VEL.CP) (Line 12)" 0.4
  srcparam bind --z 12.5 --kind TOOL_RPM --value 80
  srcparam preview              print the program that save would write
  srcparam save                 write part_modified.src and its change log

Every edit is validated before anything changes. A rejected edit leaves the
program and the undo history exactly as they were.

Run 'srcparam undo' to revert the last edit and 'srcparam redo' to reapply it.
`

const topicParams = `PARAMETER KINDS

  Kind         Token          Value              Limit
  Tool Speed   TOOL_RPM       whole number       <= 139.8
  Feed Rate    $VEL.CP        decimal            <= 2.0, above 0.5 asks first
  Cooling      LAYER_COOLING  whole number       <= 200
  Drive        ACT_DRIVE      TRUE or FALSE

Kinds can be given on the command line as the token (TOOL_RPM, $VEL.CP or
VEL.CP, LAYER_COOLING, ACT_DRIVE) or as tool-speed, feed-rate, cooling, drive.

Recognized forms

  TOOL_RPM=80
  $VEL.CP=0.3
  LAYER_COOLING=100            any text before the token is kept
  ACT_DRIVE=TRUE
  TRIGGER WHEN DISTANCE=0 DELAY=0 DO TOOL_RPM=80
  TRIGGER WHEN DISTANCE=0 DELAY=0 DO ACT_DRIVE=FALSE

A line is matched in this order: drive trigger, tool speed, feed rate,
cooling, bare drive. The first match owns the line.

Records are named "<kind label> (Line <n>)", for example
"Tool Speed (TOOL_RPM) (Line 12)". Line numbers are recomputed after every
edit, so a key can change after a line is inserted or deleted above it.

A recognized statement with an unreadable value is reported as malformed in
'srcparam status' and skipped; the rest of the file is still scanned.

Changing a value rewrites only the number (or TRUE/FALSE). Prefixes,
trigger conditions, comments and line endings stay as they were.
`

const topicAnchors = `ANCHORS AND BINDINGS

An anchor is a line that parameters can be bound to.

  --z <height>        the first "LIN X<n> Y<n> Z<height>" motion line
                      (heights within 0.0001 are the same anchor)
  --progress <n>      the first line containing PRINT_PROGRESS=<n>
                      (PRINT_PROGRESS=5 never matches 50)

Z must be between 0 and the highest Z in the program. Progress must be
between 0 and 100.

The block of an anchor is the run of parameter lines directly after it. It
ends at the first line that holds none of the four kinds.

Progress anchors

  An existing statement of the kind in the block is updated in place.
  Otherwise TOOL_RPM and ACT_DRIVE are inserted right after the anchor as
  a trigger (see 'srcparam docs config'), and $VEL.CP and LAYER_COOLING are
  added at the end of the block.

Z-height anchors

  The anchor is the first plain "LIN X<n> Y<n> Z<n>" motion line at that
  height; looser forms such as LIN_REL or "LIN {X .., Z ..}" at the same
  height are passed over. An existing
  statement of the kind in the block is updated in place. Otherwise the value
  is kept as a Z-height binding and written as "<TOKEN>=<value>" right after
  the motion line each time the program is previewed or saved. Bindings stay
  attached to their height when other lines move.

Unbind removes the Z-height binding if there is one, otherwise the statement
in the block. The anchor line and other kinds are never touched.
`

const topicHistory = `UNDO AND REDO

srcparam keeps exactly one undo step and one redo step.

  after open         nothing to undo or redo
  after an edit      undo available
  after undo         redo available
  after redo         undo available

A new edit after undo discards the redo step. 'srcparam apply' counts as one
edit no matter how many steps the plan has.

The history is stored in .srcparam/session.json together with the program
and the Z-height bindings, so it survives between commands. Opening another
file starts a new history.
`

const topicPlans = `EDIT PLANS

A plan applies several edits at once:

  srcparam apply .srcparam/plans/ramp.yaml

  name: ramp
  steps:
    - op: bind
      progress: 50
      kind: TOOL_RPM
      value: 80
    - op: bind
      z: 12.5
      kind: cooling
      value: 100
    - op: set
      key: "Feed Rate ($VEL.CP) (Line 12)"
      value: 0.8
      confirm: true
    - op: delete
      line: 40
      kind: ACT_DRIVE
    - op: unbind
      z: 3.2
      kind: drive

Fields

  op        bind, unbind, set, or delete
  z         Z-height anchor (bind, unbind)
  progress  progress anchor (bind, unbind)
  key       record key (set, delete)
  line      record line, used with kind (set, delete)
  kind      parameter kind
  value     new value (bind, set)
  confirm   accept feed rates above the confirmation threshold

Steps run in order against a working copy; keys and lines refer to the
program as the previous step left it. If any step fails, nothing is
changed. If all succeed, the whole plan is a single undo step.
`

const topicConfig = `CONFIGURATION REFERENCE

File: .srcparam/config.yaml (optional; 'srcparam init' writes a commented copy)

  limits:
    tool-speed-max: 139.8
    feed-rate-max: 2.0
    feed-rate-confirm-above: 0.5
    cooling-max: 200
  trigger:
    distance: 0
    delay: 0
  output-suffix: _modified
  changelog-suffix: _changelog
  log:
    level: warn
    file: ""

limits            Ceilings checked before any edit. Zero or missing means
                  the default. feed-rate-confirm-above must not exceed
                  feed-rate-max.
trigger           Condition used when TOOL_RPM or ACT_DRIVE is inserted at a
                  progress anchor. delay may be negative; distance may not.
output-suffix     Added to the source name for the default output file.
changelog-suffix  Added to the output name for the change log (.txt).
log.level         debug, info, warn, or error. --verbose forces debug.
log.file          Write structured logs to this file instead of stderr.
                  Relative paths are resolved against the project root.
`

const topicOutput = `OUTPUT AND CHANGE LOG

'srcparam save' writes the synthesized program: the edited lines plus every
Z-height binding. The file is written to a temporary name and renamed, so a
crash never leaves a half-written program.

Default output: <source dir>/<source name>_modified.src. Use --output to
choose another path.

Every save appends an entry to <output name>_changelog.txt:

  === 2024-03-01 09:30:00 ===
  Session: 0d5c3b4e-...
  Modified file: /parts/part.src
  Output file: /parts/part_modified.src
  Parameter changes:
  - Feed Rate ($VEL.CP) (Line 12): 0.4

  Custom Z height parameters:
  Z = 12.5:
    - Tool Speed (TOOL_RPM): 80

The change log is only ever appended to. 'srcparam preview' prints the same
text that save would write without writing anything.
`
