package console

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charlie0129/nvpsel/pkg/modes"
	"github.com/charlie0129/nvpsel/pkg/nvpmodel"
)

type scriptedKeys struct {
	keys []byte
	pos  int
}

func (s *scriptedKeys) ReadKey() (byte, error) {
	if s.pos >= len(s.keys) {
		return 0, io.EOF
	}
	k := s.keys[s.pos]
	s.pos++
	return k, nil
}

type fakeController struct {
	current string
	setErr  error
	output  string
	setIDs  []string
}

func (f *fakeController) CurrentMode() string {
	return f.current
}

func (f *fakeController) SetMode(id string) *nvpmodel.ChangeResult {
	f.setIDs = append(f.setIDs, id)
	return &nvpmodel.ChangeResult{ID: id, Output: f.output, Err: f.setErr}
}

func testTable() modes.Table {
	return modes.Table{"0": "15W", "1": "MAXN"}
}

// Key script layout: first byte acknowledges the banner, then one byte per
// iteration plus one acknowledgement byte, ESC to leave.
func runConsole(t *testing.T, ctrl *fakeController, keys ...byte) string {
	t.Helper()
	out := &bytes.Buffer{}
	c := New(out, &scriptedKeys{keys: keys}, testTable(), ctrl)
	if err := c.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	return out.String()
}

func TestEscapeExitsWithoutChange(t *testing.T) {
	ctrl := &fakeController{current: "0"}

	out := runConsole(t, ctrl, ' ', 0x1b)

	if len(ctrl.setIDs) != 0 {
		t.Fatalf("escape must not invoke the mode changer, got %v", ctrl.setIDs)
	}
	if !strings.Contains(out, "Bye!") {
		t.Fatalf("expected farewell message, got %q", out)
	}
}

func TestValidSelectionAppliesMode(t *testing.T) {
	ctrl := &fakeController{current: "0"}

	out := runConsole(t, ctrl, ' ', '1', ' ', 0x1b)

	if len(ctrl.setIDs) != 1 || ctrl.setIDs[0] != "1" {
		t.Fatalf("expected SetMode(\"1\"), got %v", ctrl.setIDs)
	}
	if !strings.Contains(out, "switched to mode") || !strings.Contains(out, "MAXN") {
		t.Fatalf("expected success report naming the mode, got %q", out)
	}
}

func TestInvalidKeyReported(t *testing.T) {
	ctrl := &fakeController{current: "0"}

	out := runConsole(t, ctrl, ' ', 'x', ' ', 0x1b)

	if len(ctrl.setIDs) != 0 {
		t.Fatalf("invalid key must not invoke the mode changer, got %v", ctrl.setIDs)
	}
	if !strings.Contains(out, `invalid choice: "x"`) {
		t.Fatalf("expected invalid-choice message naming the key, got %q", out)
	}
}

func TestCurrentModeShownWithName(t *testing.T) {
	ctrl := &fakeController{current: "1"}

	out := runConsole(t, ctrl, ' ', 0x1b)

	if !strings.Contains(out, "Current power mode:") || !strings.Contains(out, "MAXN") {
		t.Fatalf("expected current mode with display name, got %q", out)
	}
}

func TestUnknownCurrentModeShownAsSentinel(t *testing.T) {
	ctrl := &fakeController{current: nvpmodel.ModeUnknown}

	out := runConsole(t, ctrl, ' ', 0x1b)

	if !strings.Contains(out, nvpmodel.ModeUnknown) {
		t.Fatalf("expected unknown sentinel in output, got %q", out)
	}
}

func TestReportChangeFailurePassesOutputThrough(t *testing.T) {
	out := &bytes.Buffer{}
	diag := "NVPM ERROR: not permitted\n"
	res := &nvpmodel.ChangeResult{
		ID:     "1",
		Output: diag,
		Err:    errors.New("exit status 1"),
	}

	ReportChange(out, res, "MAXN")

	got := out.String()
	if !strings.Contains(got, "failed to switch to mode") {
		t.Fatalf("expected failure report, got %q", got)
	}
	if !strings.Contains(got, diag) {
		t.Fatalf("expected verbatim diagnostic %q in %q", diag, got)
	}
}

func TestReportChangeSuccess(t *testing.T) {
	out := &bytes.Buffer{}
	res := &nvpmodel.ChangeResult{ID: "0", Output: "NVPM VERB: mode changed\n"}

	ReportChange(out, res, "15W")

	got := out.String()
	if !strings.Contains(got, "switched to mode") || !strings.Contains(got, "15W") {
		t.Fatalf("expected success report with name, got %q", got)
	}
}
