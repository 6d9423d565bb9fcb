// Package preview serves a live view of a draft while it is being edited.
//
// The server watches the draft file, converts it on every change and pushes
// the new title and article to connected browsers over a websocket. A failed
// conversion is reported to the browsers without replacing the last good
// article. The draft is also saved to a draft.Store on an interval, only
// when its content changed since the last save.
package preview

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	eventpage "github.com/alnah/go-eventpage"
	"github.com/alnah/go-eventpage/internal/draft"
	"github.com/alnah/go-eventpage/internal/fileutil"
)

// Defaults applied by New for zero Config fields.
const (
	DefaultAddr     = "127.0.0.1:8080"
	DefaultAutosave = 5 * time.Second
	DefaultDebounce = 100 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

// ErrNoDraftPath is returned by New when Config.Path is empty.
var ErrNoDraftPath = errors.New("draft path is required")

//go:embed shell.html
var shellHTML string

var shellTemplate = template.Must(template.New("shell").Parse(shellHTML))

// Converter turns a draft into a conversion result.
type Converter interface {
	Convert(md string) (*eventpage.Result, error)
}

// Config holds preview server settings.
type Config struct {
	Addr     string        // Listen address
	Path     string        // Draft file to watch
	Key      string        // Draft store key (empty = draft.DefaultKey)
	CSS      string        // Stylesheet embedded in the preview page
	Autosave time.Duration // Interval between store saves
	Debounce time.Duration // Quiet period before reconverting
}

// update is pushed after a successful conversion.
type update struct {
	Title   string `json:"title"`
	Lang    string `json:"lang,omitempty"`
	Article string `json:"article"`
}

// failure is pushed when the draft cannot be read or converted.
type failure struct {
	Error string `json:"error"`
}

// State is the server's view of the draft.
type State struct {
	Title   string `json:"title"`
	Lang    string `json:"lang,omitempty"`
	Article string `json:"article"`
	Error   string `json:"error,omitempty"`
}

// Server is a live preview server for one draft file.
type Server struct {
	cfg    Config
	conv   Converter
	store  draft.Store
	logger *slog.Logger
	hub    *hub

	mu     sync.Mutex
	state  State
	source string // Last content read from the draft file
	loaded bool   // source holds a successfully read file
	saved  string // Last content written to the store
}

// New creates a Server. conv converts drafts, store receives autosaves.
func New(cfg Config, conv Converter, store draft.Store, logger *slog.Logger) (*Server, error) {
	if cfg.Path == "" {
		return nil, ErrNoDraftPath
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Key == "" {
		cfg.Key = draft.DefaultKey
	}
	if err := draft.ValidateKey(cfg.Key); err != nil {
		return nil, err
	}
	if cfg.Autosave <= 0 {
		cfg.Autosave = DefaultAutosave
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolving draft path: %w", err)
	}
	cfg.Path = abs

	return &Server{
		cfg:    cfg,
		conv:   conv,
		store:  store,
		logger: logger,
		hub:    newHub(logger),
	}, nil
}

// Handler returns the HTTP routes: the preview page at "/", the websocket
// at "/ws" and the current state as JSON at "/state".
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.servePage)
	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
		s.hub.serveWS(w, r, s.initialMessages)
	})
	mux.HandleFunc("GET /state", s.serveState)
	return mux
}

func (s *Server) servePage(w http.ResponseWriter, _ *http.Request) {
	st := s.State()

	lang := st.Lang
	if lang == "" {
		lang = eventpage.DefaultLang
	}
	data := struct {
		Lang    string
		Title   string
		CSS     template.CSS
		Article template.HTML
	}{
		Lang:    lang,
		Title:   st.Title,
		CSS:     template.CSS(s.cfg.CSS), // #nosec G203 -- stylesheet chosen by the operator
		Article: template.HTML(st.Article), // #nosec G203 -- converter output, tags escaped
	}

	var buf bytes.Buffer
	if err := shellTemplate.Execute(&buf, data); err != nil {
		s.logger.Error("rendering preview page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) serveState(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(s.State()); err != nil {
		s.logger.Debug("writing state", "error", err)
	}
}

// State returns a copy of the current state.
func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// initialMessages returns what a new client needs to catch up: the last
// good result, then the pending error if any.
func (s *Server) initialMessages() [][]byte {
	st := s.State()

	msgs := [][]byte{mustJSON(update{Title: st.Title, Lang: st.Lang, Article: st.Article})}
	if st.Error != "" {
		msgs = append(msgs, mustJSON(failure{Error: st.Error}))
	}
	return msgs
}

// Reload reads and converts the draft, then notifies every client.
// On failure the previous title and article are kept.
func (s *Server) Reload() error {
	data, err := os.ReadFile(s.cfg.Path) // #nosec G304 -- draft path is user-provided
	if err != nil {
		return s.fail(fmt.Errorf("reading draft: %w", err))
	}
	source := string(data)

	s.mu.Lock()
	s.source = source
	s.loaded = true
	s.mu.Unlock()

	res, err := s.conv.Convert(source)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.state = State{Title: res.Title, Lang: res.Attributes.Lang, Article: res.Article}
	s.mu.Unlock()

	s.hub.broadcast(mustJSON(update{Title: res.Title, Lang: res.Attributes.Lang, Article: res.Article}))
	s.logger.Debug("draft converted", "title", res.Title, "bytes", len(source))
	return nil
}

func (s *Server) fail(err error) error {
	s.mu.Lock()
	s.state.Error = err.Error()
	s.mu.Unlock()

	s.hub.broadcast(mustJSON(failure{Error: err.Error()}))
	s.logger.Warn("conversion failed", "error", err)
	return err
}

// Autosave writes the last read draft to the store when it is non-empty
// and differs from what was last saved. It reports whether a save happened.
func (s *Server) Autosave() (bool, error) {
	s.mu.Lock()
	source, loaded, saved := s.source, s.loaded, s.saved
	s.mu.Unlock()

	// An emptied file never overwrites the stored draft.
	if !loaded || source == "" || source == saved {
		return false, nil
	}
	if err := s.store.Save(s.cfg.Key, source); err != nil {
		return false, err
	}

	s.mu.Lock()
	s.saved = source
	s.mu.Unlock()

	s.logger.Debug("draft saved", "key", s.cfg.Key, "bytes", len(source))
	return true, nil
}

// Restore seeds a missing draft file from a non-empty stored draft. It
// reports whether the file was written.
func (s *Server) Restore() (bool, error) {
	if fileutil.FileExists(s.cfg.Path) {
		return false, nil
	}

	value, ok, err := s.store.Load(s.cfg.Key)
	if err != nil || !ok || value == "" {
		return false, err
	}
	if err := fileutil.WriteFileAtomic(s.cfg.Path, []byte(value)); err != nil {
		return false, fmt.Errorf("restoring draft: %w", err)
	}

	s.mu.Lock()
	s.saved = value
	s.mu.Unlock()

	s.logger.Info("draft restored", "key", s.cfg.Key, "path", s.cfg.Path)
	return true, nil
}

// Run serves until ctx is cancelled, then shuts down and saves the draft
// one last time.
func (s *Server) Run(ctx context.Context) error {
	if _, err := s.Restore(); err != nil {
		return err
	}
	// A broken draft is reported to browsers; the server still starts.
	_ = s.Reload()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so editors that save by rename stay tracked.
	if err := watcher.Add(filepath.Dir(s.cfg.Path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(s.cfg.Path), err)
	}

	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.watch(ctx, watcher)
	}()
	go func() {
		defer wg.Done()
		s.autosaveLoop(ctx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	s.logger.Info("preview server listening", "url", "http://"+ln.Addr().String(), "draft", s.cfg.Path)

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	s.hub.closeAll()
	if err := srv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("shutting down: %w", err)
	}
	wg.Wait()

	if _, err := s.Autosave(); err != nil {
		s.logger.Error("final save failed", "error", err)
		if runErr == nil {
			runErr = err
		}
	}
	s.logger.Info("preview server stopped")
	return runErr
}

// watch reconverts the draft after changes settle for the debounce period.
func (s *Server) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	timer := time.NewTimer(s.cfg.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !s.isDraftEvent(event) {
				continue
			}
			timer.Reset(s.cfg.Debounce)
		case <-timer.C:
			s.logger.Debug("change detected", "path", s.cfg.Path)
			_ = s.Reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("watcher error", "error", err)
		}
	}
}

func (s *Server) isDraftEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != s.cfg.Path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func (s *Server) autosaveLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Autosave)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Autosave(); err != nil {
				s.logger.Error("autosave failed", "error", err)
			}
		}
	}
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("preview: encoding message: %v", err))
	}
	return data
}
