package commands

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/typegen/internal/config"
	"github.com/okra-platform/typegen/internal/testutil"
)

// Mock implementations shared by the command tests
type mockConfigLoader struct {
	mock.Mock
}

func (m *mockConfigLoader) Load(path string) (*config.Config, string, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*config.Config), args.String(1), args.Error(2)
}

type mockSignalNotifier struct {
	mock.Mock
	mu sync.Mutex
	ch chan<- os.Signal
}

func (m *mockSignalNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) {
	m.mu.Lock()
	m.ch = c
	m.mu.Unlock()
	m.Called(c, sig)
}

func (m *mockSignalNotifier) Stop(c chan<- os.Signal) {
	m.Called(c)
}

func (m *mockSignalNotifier) send(sig os.Signal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ch <- sig
}

type mockOutput struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockOutput) Printf(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, fmt.Sprintf(format, args...))
}

func (m *mockOutput) Println(args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, fmt.Sprintln(args...))
}

func (m *mockOutput) get() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...)
}

// memFileSystem is an in-memory generate.FileSystem
type memFileSystem struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemFileSystem() *memFileSystem {
	return &memFileSystem{files: map[string][]byte{}}
}

func (m *memFileSystem) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (m *memFileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	return nil
}

func (m *memFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return nil
}

func (m *memFileSystem) get(path string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files[path]
}

// syncBuffer is a bytes.Buffer safe for concurrent use
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

const (
	testConfigFile = "/project/typegen.json"
	testCrateFile  = "/project/doc/oasis_runtime_sdk.json"
)

// testConfig has one target writing the accounts Event to path
func testConfig(output string) *config.Config {
	return &config.Config{
		Name:     "client-sdk",
		Language: "typescript",
		Helpers:  "oasis.types",
		Targets: []config.TargetConfig{{
			Name:   "events",
			Crate:  "doc/oasis_runtime_sdk.json",
			Output: output,
			Roots: []config.RootConfig{
				{Path: "oasis_runtime_sdk::modules::accounts::Event", Kind: "enum"},
			},
		}},
		Watch: config.WatchConfig{Debounce: config.Duration(config.DefaultDebounce)},
	}
}

// testDependencies wires mocks around an in-memory file system holding the fixture crate
func testDependencies(t *testing.T, loader ConfigLoader) (Dependencies, *memFileSystem, *mockOutput, *syncBuffer) {
	t.Helper()
	fixture, err := os.ReadFile(testutil.FixturePath("runtime_sdk.json"))
	require.NoError(t, err)

	fs := newMemFileSystem()
	fs.files[testCrateFile] = fixture

	output := &mockOutput{}
	stdout := &syncBuffer{}
	return Dependencies{
		ConfigLoader: loader,
		Output:       output,
		FileSystem:   fs,
		Stdout:       stdout,
		Logger:       zerolog.Nop(),
	}, fs, output, stdout
}
