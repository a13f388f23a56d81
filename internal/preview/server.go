// Package preview streams baked terrain frames to browsers over websockets.
//
// A single loop advances the animation clock at a fixed rate, bakes the grid
// and broadcasts the encoded frame. Each client has a one-slot outbox: a
// slow client skips stale frames and always receives the newest one.
package preview

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/procedural-horizon/internal/animation"
	"github.com/Faultbox/procedural-horizon/internal/bake"
	"github.com/Faultbox/procedural-horizon/internal/config"
	"github.com/Faultbox/procedural-horizon/internal/engine/scene"
	"github.com/Faultbox/procedural-horizon/internal/logger"
	"github.com/Faultbox/procedural-horizon/internal/terrain"
)

//go:embed static
var staticFiles embed.FS

// Server is the preview HTTP and websocket server.
type Server struct {
	cfg      config.PreviewConfig
	scene    *scene.Scene
	grid     *terrain.Grid
	baker    *bake.Baker
	upgrader websocket.Upgrader
	log      *zap.Logger

	mu      sync.Mutex // guards everything below
	driver  *animation.Driver
	camera  mgl64.Vec3
	clients map[*client]struct{}
	latest  []byte
}

// New creates a server for sc. The grid is rebuilt at the preview
// resolution; workers sizes the bake pool (0 = one per CPU).
func New(sc *scene.Scene, cfg config.PreviewConfig, camera mgl64.Vec3, workers int) (*Server, error) {
	grid, err := sc.GridWithSegments(cfg.Segments, cfg.Segments)
	if err != nil {
		return nil, fmt.Errorf("preview grid: %w", err)
	}
	if cfg.FPS < 1 {
		return nil, fmt.Errorf("preview: fps must be at least 1, got %d", cfg.FPS)
	}
	return &Server{
		cfg:   cfg,
		scene: sc,
		grid:  grid,
		baker: bake.New(workers),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			// local tool; the page may be opened from another port
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log:     logger.Named("preview"),
		driver:  animation.NewDriver(sc.InitialMode(), camera),
		camera:  camera,
		clients: make(map[*client]struct{}),
	}, nil
}

// Handler returns the HTTP routes: the page shell at / and the stream at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	static, _ := fs.Sub(staticFiles, "static")
	mux.Handle("/", http.FileServer(http.FS(static)))
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Run serves on the configured address and streams frames until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("preview server listening", zap.String("addr", "http://"+s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	loopErr := s.Loop(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("shutdown", zap.Error(err))
	}
	s.Close()

	if err := <-errCh; err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	if errors.Is(loopErr, context.Canceled) {
		return nil
	}
	return loopErr
}

// Loop steps the animation at the configured rate until ctx is done.
func (s *Server) Loop(ctx context.Context) error {
	interval := time.Second / time.Duration(s.cfg.FPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if _, err := s.Step(ctx, dt); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}
		}
	}
}

// Step advances the clock by dt, bakes one frame and offers it to every
// client. It returns the frame that was sent.
func (s *Server) Step(ctx context.Context, dt float64) (Frame, error) {
	s.mu.Lock()
	u := s.driver.Tick(dt, s.camera)
	state := s.driver.State()
	s.mu.Unlock()

	mesh, err := s.baker.Bake(ctx, s.grid, u.Mode, u.Time, u.Camera)
	if err != nil {
		return Frame{}, err
	}
	frame := newFrame(s.grid, mesh, u, state)
	data, err := json.Marshal(frame)
	if err != nil {
		return Frame{}, fmt.Errorf("encoding frame: %w", err)
	}

	s.mu.Lock()
	s.latest = data
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	dropped := 0
	for _, c := range clients {
		if !c.offer(data) {
			dropped++
		}
	}
	if dropped > 0 {
		s.log.Debug("slow clients skipped a frame",
			zap.Uint64("frame", u.Frame),
			zap.Int("dropped", dropped),
		)
	}
	return frame, nil
}

// Mode returns the active mode name.
func (s *Server) Mode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driver.Mode().Name
}

// SetMode switches every client to the named mode. The clock keeps its value.
func (s *Server) SetMode(name string) error {
	mode, err := s.scene.Mode(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.driver.SetMode(mode)
	s.mu.Unlock()
	s.log.Info("mode switched", zap.String("mode", mode.Name))
	return nil
}

// SetCamera moves the eye used for view-dependent shading.
func (s *Server) SetCamera(pos mgl64.Vec3) {
	s.mu.Lock()
	s.camera = pos
	s.mu.Unlock()
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close disconnects every client and stops the bake pool.
func (s *Server) Close() {
	s.mu.Lock()
	for c := range s.clients {
		c.close()
		delete(s.clients, c)
	}
	s.mu.Unlock()
	s.baker.Close()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := newClient(conn, s.cfg.WriteTimeout)
	s.mu.Lock()
	s.clients[c] = struct{}{}
	latest := s.latest
	s.mu.Unlock()
	s.log.Info("client connected", zap.String("remote", r.RemoteAddr))

	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
		c.close()
		s.log.Info("client disconnected", zap.String("remote", r.RemoteAddr))
	}()

	go c.writeLoop(s.log)
	if latest != nil {
		c.offer(latest)
	}

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("websocket read", zap.Error(err))
			}
			return
		}
		if err := s.apply(msg); err != nil {
			s.log.Warn("rejected client message", zap.Error(err))
			if data, err := json.Marshal(Error{Type: "error", Error: err.Error()}); err == nil {
				c.offer(data)
			}
		}
	}
}

func (s *Server) apply(msg Message) error {
	if msg.Camera != nil {
		s.SetCamera(mgl64.Vec3(*msg.Camera))
	}
	if msg.Mode != "" {
		return s.SetMode(msg.Mode)
	}
	return nil
}
