package snapshot

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deskmux/deskmux/internal/multiplexer"
)

// replayBackend records structural commands so tests can assert the
// exact restore sequence.
type replayBackend struct {
	sessions  []string
	described map[string]multiplexer.Session
	calls     []string
	failOn    string
}

func (f *replayBackend) Name() string         { return "fake" }
func (f *replayBackend) Available() bool      { return true }
func (f *replayBackend) SupportsRename() bool { return true }

func (f *replayBackend) Sessions(ctx context.Context) ([]string, error) {
	return append([]string(nil), f.sessions...), nil
}

func (f *replayBackend) Describe(ctx context.Context, name string) (multiplexer.Session, error) {
	return f.described[name], nil
}

func (f *replayBackend) record(call string) error {
	f.calls = append(f.calls, call)
	if f.failOn != "" && strings.HasPrefix(call, f.failOn) {
		return fmt.Errorf("injected failure at %q", call)
	}
	return nil
}

func (f *replayBackend) Create(ctx context.Context, name, dir string) error {
	if err := f.record("create " + name + " " + dir); err != nil {
		return err
	}
	f.sessions = append(f.sessions, name)
	return nil
}

func (f *replayBackend) Kill(ctx context.Context, name string) error {
	return f.record("kill " + name)
}

func (f *replayBackend) Rename(ctx context.Context, oldName, newName string) error {
	return f.record("rename " + oldName + " " + newName)
}

func (f *replayBackend) Attach(name string) error            { return f.record("attach " + name) }
func (f *replayBackend) AttachCommand(name string) *exec.Cmd { return exec.Command("true") }

func (f *replayBackend) NewWindow(ctx context.Context, session, name, dir string) error {
	return f.record(fmt.Sprintf("new-window %s %s %s", session, name, dir))
}

func (f *replayBackend) SplitPane(ctx context.Context, session string, window int, dir string) error {
	return f.record(fmt.Sprintf("split-pane %s %d %s", session, window, dir))
}

func (f *replayBackend) SelectLayout(ctx context.Context, session string, window int) error {
	return f.record(fmt.Sprintf("select-layout %s %d", session, window))
}

func devSession() multiplexer.Session {
	return multiplexer.Session{
		Name: "dev",
		Windows: []multiplexer.Window{
			{Name: "code", Panes: []multiplexer.Pane{{WorkingDir: "/a"}, {WorkingDir: "/b"}}},
		},
	}
}

func TestTake(t *testing.T) {
	b := &replayBackend{
		sessions:  []string{"dev"},
		described: map[string]multiplexer.Session{"dev": devSession()},
	}

	snap, err := Take(context.Background(), b)
	if err != nil {
		t.Fatalf("Take() error = %v", err)
	}
	if len(snap.Sessions) != 1 {
		t.Fatalf("Take() captured %d sessions, want 1", len(snap.Sessions))
	}
	s := snap.Sessions[0]
	if s.Name != "dev" || len(s.Windows) != 1 || len(s.Windows[0].Panes) != 2 {
		t.Errorf("captured session = %+v", s)
	}
	if s.Windows[0].Panes[0].Dir != "/a" || s.Windows[0].Panes[1].Dir != "/b" {
		t.Errorf("pane dirs = %+v", s.Windows[0].Panes)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "sessions.yaml")
	snap := &Snapshot{Sessions: []Session{{
		Name: "dev",
		Windows: []Window{
			{Name: "code", Panes: []Pane{{Dir: "/a"}, {Dir: "/b"}}},
			{Panes: []Pane{{Dir: "/c"}}},
		},
	}}}

	if err := Write(snap, path); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// The file is plain nested YAML, readable without this program.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"name: dev", "name: code", "dir: /a"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("snapshot file missing %q:\n%s", want, data)
		}
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got.Sessions) != 1 || len(got.Sessions[0].Windows) != 2 {
		t.Errorf("round trip = %+v", got)
	}
	if got.Sessions[0].Windows[1].Name != "" {
		t.Errorf("unnamed window gained a name: %+v", got.Sessions[0].Windows[1])
	}
}

func TestReadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.yaml")
	if err := os.WriteFile(path, []byte("{{{not yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Error("Read() on corrupt file should error")
	}
}

func TestRestoreReplaySequence(t *testing.T) {
	b := &replayBackend{}
	snap := &Snapshot{Sessions: []Session{{
		Name: "dev",
		Windows: []Window{
			{Name: "code", Panes: []Pane{{Dir: "/a"}, {Dir: "/b"}}},
			{Name: "logs", Panes: []Pane{{Dir: "/c"}}},
		},
	}}}

	if err := Restore(context.Background(), b, snap, nil); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	want := []string{
		"create dev /a",
		"split-pane dev 0 /b",
		"select-layout dev 0",
		"new-window dev logs /c",
	}
	if len(b.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", b.calls, want)
	}
	for i := range want {
		if b.calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, b.calls[i], want[i])
		}
	}
}

func TestRestoreSkipsExistingSessions(t *testing.T) {
	b := &replayBackend{sessions: []string{"dev"}}
	snap := &Snapshot{Sessions: []Session{
		{Name: "dev", Windows: []Window{{Panes: []Pane{{Dir: "/a"}}}}},
		{Name: "fresh", Windows: []Window{{Panes: []Pane{{Dir: "/b"}}}}},
	}}

	if err := Restore(context.Background(), b, snap, nil); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	for _, c := range b.calls {
		if strings.Contains(c, "dev") {
			t.Errorf("existing session was touched: %q", c)
		}
	}
	if len(b.calls) != 1 || b.calls[0] != "create fresh /b" {
		t.Errorf("calls = %v, want only fresh created", b.calls)
	}
}

func TestRestoreContinuesPastFailures(t *testing.T) {
	b := &replayBackend{failOn: "create broken"}
	snap := &Snapshot{Sessions: []Session{
		{Name: "broken", Windows: []Window{{Panes: []Pane{{Dir: "/x"}}}}},
		{Name: "fine", Windows: []Window{{Panes: []Pane{{Dir: "/y"}}}}},
	}}

	err := Restore(context.Background(), b, snap, nil)
	if err == nil {
		t.Fatal("Restore() should report the failed session")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error does not name the failed session: %v", err)
	}

	created := false
	for _, c := range b.calls {
		if c == "create fine /y" {
			created = true
		}
	}
	if !created {
		t.Errorf("later sessions must still restore, calls = %v", b.calls)
	}
}

func TestRestoreEmptySession(t *testing.T) {
	b := &replayBackend{}
	snap := &Snapshot{Sessions: []Session{{Name: "bare"}}}

	if err := Restore(context.Background(), b, snap, nil); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if len(b.calls) != 1 || b.calls[0] != "create bare " {
		t.Errorf("calls = %v, want bare created with no dir", b.calls)
	}
}

func TestSerializerDisabled(t *testing.T) {
	b := &replayBackend{sessions: []string{"dev"}}
	path := filepath.Join(t.TempDir(), "sessions.yaml")

	s := NewSerializer(b, path, false, nil)
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("disabled serializer must not write the session file")
	}
	if err := s.Restore(context.Background()); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
}

func TestSerializerSaveRestore(t *testing.T) {
	b := &replayBackend{
		sessions:  []string{"dev"},
		described: map[string]multiplexer.Session{"dev": devSession()},
	}
	path := filepath.Join(t.TempDir(), "sessions.yaml")

	if err := NewSerializer(b, path, true, nil).Save(context.Background()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Restore into an empty multiplexer replays the captured shape.
	fresh := &replayBackend{}
	if err := NewSerializer(fresh, path, true, nil).Restore(context.Background()); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	want := []string{"create dev /a", "split-pane dev 0 /b", "select-layout dev 0"}
	if len(fresh.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", fresh.calls, want)
	}
}

func TestSerializerRestoreMissingFile(t *testing.T) {
	b := &replayBackend{}
	s := NewSerializer(b, filepath.Join(t.TempDir(), "nope.yaml"), true, nil)
	if err := s.Restore(context.Background()); err != nil {
		t.Errorf("Restore() with missing file = %v, want nil", err)
	}
	if len(b.calls) != 0 {
		t.Errorf("no file, no calls expected: %v", b.calls)
	}
}
