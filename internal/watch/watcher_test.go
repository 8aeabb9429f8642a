package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmsman-ai/helmsman/internal/core/domain"
)

// recordingDocService captures Index and Remove calls.
type recordingDocService struct {
	mu      sync.Mutex
	indexed []string
	removed []string
	nextID  int
}

func (s *recordingDocService) Index(_ context.Context, name string, _ []byte, _ string) (*domain.DocumentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.indexed = append(s.indexed, name)
	return &domain.DocumentRecord{ID: name, Name: name, ChunkCount: 1}, nil
}

func (s *recordingDocService) Remove(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, documentID)
	return nil
}

func (s *recordingDocService) List(_ context.Context) ([]domain.DocumentRecord, error) {
	return nil, nil
}

func (s *recordingDocService) indexedNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.indexed...)
}

func (s *recordingDocService) removedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.removed...)
}

func TestClassify(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "policy.txt")
	require.NoError(t, os.WriteFile(file, []byte("text"), 0o644))

	subdir := filepath.Join(dir, "notes.md")
	require.NoError(t, os.Mkdir(subdir, 0o755))

	tests := []struct {
		name  string
		event fsnotify.Event
		want  action
	}{
		{
			name:  "create supported file",
			event: fsnotify.Event{Name: file, Op: fsnotify.Create},
			want:  actionUpsert,
		},
		{
			name:  "write supported file",
			event: fsnotify.Event{Name: file, Op: fsnotify.Write},
			want:  actionUpsert,
		},
		{
			name:  "remove supported file",
			event: fsnotify.Event{Name: filepath.Join(dir, "gone.txt"), Op: fsnotify.Remove},
			want:  actionRemove,
		},
		{
			name:  "rename treated as remove",
			event: fsnotify.Event{Name: filepath.Join(dir, "gone.md"), Op: fsnotify.Rename},
			want:  actionRemove,
		},
		{
			name:  "chmod ignored",
			event: fsnotify.Event{Name: file, Op: fsnotify.Chmod},
			want:  actionNone,
		},
		{
			name:  "hidden file ignored",
			event: fsnotify.Event{Name: filepath.Join(dir, ".hidden.txt"), Op: fsnotify.Create},
			want:  actionNone,
		},
		{
			name:  "unsupported extension ignored",
			event: fsnotify.Event{Name: filepath.Join(dir, "archive.zip"), Op: fsnotify.Create},
			want:  actionNone,
		},
		{
			name:  "directory with supported suffix ignored",
			event: fsnotify.Event{Name: subdir, Op: fsnotify.Create},
			want:  actionNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.event))
		})
	}
}

func TestDocumentName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/docs/hr_leave-policy.txt", "hr leave policy"},
		{"/docs/Onboarding Guide.md", "Onboarding Guide"},
		{"report.pdf", "report"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, documentName(tt.path))
	}
}

func TestWatcher_IndexesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leave_policy.txt"), []byte("15 days"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.bin"), []byte{0x0}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.txt"), []byte("x"), 0o644))

	svc := &recordingDocService{}
	w := New(svc, dir, 10*time.Millisecond)
	require.NoError(t, w.indexExisting(context.Background()))

	assert.Equal(t, []string{"leave policy"}, svc.indexedNames())
}

func TestWatcher_ReactsToEvents(t *testing.T) {
	dir := t.TempDir()
	svc := &recordingDocService{}
	w := New(svc, dir, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "security.md")
	require.NoError(t, os.WriteFile(path, []byte("# Lock your laptop"), 0o644))

	require.Eventually(t, func() bool {
		names := svc.indexedNames()
		return len(names) == 1 && names[0] == "security"
	}, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, os.Remove(path))

	require.Eventually(t, func() bool {
		return len(svc.removedIDs()) == 1
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
