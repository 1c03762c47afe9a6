package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

const testScene = `
[[frames]]
name = "hero"
frame = [0, 0, 32, 48]
anchor = [0.5, 1.0]

[root]
name = "world"
layer = true
alpha = 0.5

[[root.children]]
name = "player"
sprite = "hero"
x = 100
y = 50

[[root.children]]
name = "box"
rect = [10, 20]
x = -10

[[root.children.effects]]
type = "padding"
x = 2
y = 3
`

const testAtlas = `{
	"frames": {
		"turned": {
			"frame": {"x": 0, "y": 0, "w": 48, "h": 32},
			"rotated": true,
			"trimmed": false,
			"spriteSourceSize": {"x": 0, "y": 0, "w": 48, "h": 32},
			"sourceSize": {"w": 48, "h": 32}
		}
	}
}`

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the root command with args and returns stdout without styling.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(&out, io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return ansi.ReplaceAllString(out.String(), ""), err
}

func TestBoundsCommand(t *testing.T) {
	path := writeFile(t, "scene.toml", testScene)

	out, err := run(t, "bounds", path)
	if err != nil {
		t.Fatalf("bounds: %v", err)
	}
	want := "world x=-12 y=-3 w=128 h=53"
	if !strings.Contains(out, want) {
		t.Errorf("output = %q, want it to contain %q", out, want)
	}
}

func TestBoundsCommandNode(t *testing.T) {
	path := writeFile(t, "scene.toml", testScene)

	out, err := run(t, "bounds", path, "--node", "player")
	if err != nil {
		t.Fatalf("bounds: %v", err)
	}
	want := "player x=84 y=2 w=32 h=48"
	if !strings.Contains(out, want) {
		t.Errorf("output = %q, want it to contain %q", out, want)
	}

	out, err = run(t, "bounds", path, "--node", "player", "--local")
	if err != nil {
		t.Fatalf("bounds --local: %v", err)
	}
	want = "player x=-16 y=-48 w=32 h=48"
	if !strings.Contains(out, want) {
		t.Errorf("local output = %q, want it to contain %q", out, want)
	}
}

func TestBoundsCommandAll(t *testing.T) {
	path := writeFile(t, "scene.toml", testScene)

	out, err := run(t, "bounds", path, "--all")
	if err != nil {
		t.Fatalf("bounds --all: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[2], "box x=-12 y=-3 w=14 h=26") {
		t.Errorf("box line = %q", lines[2])
	}
}

func TestBoundsCommandMissingNode(t *testing.T) {
	path := writeFile(t, "scene.toml", testScene)

	_, err := run(t, "bounds", path, "--node", "ghost")
	if err == nil {
		t.Fatal("expected error for missing node")
	}
	if !strings.Contains(err.Error(), `"ghost"`) {
		t.Errorf("error = %v, want it to name the node", err)
	}
}

func TestUVsCommandScene(t *testing.T) {
	path := writeFile(t, "scene.toml", testScene)

	out, err := run(t, "uvs", path)
	if err != nil {
		t.Fatalf("uvs: %v", err)
	}
	for _, want := range []string{"hero", "symmetry=0", "TL 0,0", "TR 32,0", "BR 32,48", "BL 0,48"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestUVsCommandRotatedAtlas(t *testing.T) {
	path := writeFile(t, "atlas.json", testAtlas)

	out, err := run(t, "uvs", path, "--frame", "turned")
	if err != nil {
		t.Fatalf("uvs: %v", err)
	}
	// Stored 32x48 in the atlas, sampled back upright.
	for _, want := range []string{"frame=(0,0 32x48)", "symmetry=2", "TL 32,0", "TR 32,48", "BR 0,48", "BL 0,0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestUVsCommandUnknownFrame(t *testing.T) {
	path := writeFile(t, "atlas.json", testAtlas)

	if _, err := run(t, "uvs", path, "--frame", "nope"); err == nil {
		t.Error("expected error for unknown frame")
	}
}

func TestTreeCommand(t *testing.T) {
	path := writeFile(t, "scene.toml", testScene)

	out, err := run(t, "tree", path)
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "world [layer #ffffff7f] alpha=0.498039 color=#ffffffff") {
		t.Errorf("root line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  player") {
		t.Errorf("child line = %q, want indented player", lines[1])
	}
}

func TestInstructionsCommand(t *testing.T) {
	path := writeFile(t, "scene.toml", testScene)

	out, err := run(t, "instructions", path)
	if err != nil {
		t.Fatalf("instructions: %v", err)
	}
	for _, want := range []string{
		"layer root",
		"  layer world #ffffff7f",
		"    batch blend=normal vertices=8 triangles=4",
		"total groups=2 drawCalls=1 vertices=8",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLoadSceneError(t *testing.T) {
	path := writeFile(t, "bad.toml", "[root]\nname = \"x\"\nbogus = 1\n")

	if _, err := run(t, "tree", path); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestHexColor(t *testing.T) {
	if got := hexColor(0x80FF0011); got != "#1100ff80" {
		t.Errorf("hexColor = %q, want %q", got, "#1100ff80")
	}
}
