package ws

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/sstvd/sstvd/internal/api"
	"github.com/sstvd/sstvd/internal/app"
)

func Init() {
	var cfg struct {
		Mod struct {
			Origin string `yaml:"origin"`
		} `yaml:"api"`
	}

	app.LoadConfig(&cfg)

	log = app.GetLogger("api")

	initWS(cfg.Mod.Origin)

	api.HandleFunc("api/ws", apiWS)
}

var log zerolog.Logger

var wsUp *websocket.Upgrader

func initWS(origin string) {
	wsUp = &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}

	switch origin {
	case "":
		// same origin + ignore port
		wsUp.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header["Origin"]
			if len(origin) == 0 {
				return true
			}
			o, err := url.Parse(origin[0])
			if err != nil {
				return false
			}
			if o.Host == r.Host {
				return true
			}
			log.Trace().Msgf("[api] ws origin=%s, host=%s", o.Host, r.Host)
			if i := strings.IndexByte(o.Host, ':'); i > 0 {
				return o.Host[:i] == r.Host
			}
			return false
		}
	case "*":
		// any origin
		wsUp.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	}
}

var (
	subMu sync.Mutex
	subs  = map[*websocket.Conn]chan any{}
)

// Broadcast sends v to every connected websocket client. Slow clients
// drop messages instead of blocking the caller.
func Broadcast(v any) {
	subMu.Lock()
	for ws, ch := range subs {
		select {
		case ch <- v:
		default:
			log.Trace().Str("addr", ws.RemoteAddr().String()).Msg("[api] ws slow client")
		}
	}
	subMu.Unlock()
}

func apiWS(w http.ResponseWriter, r *http.Request) {
	ws, err := wsUp.Upgrade(w, r, nil)
	if err != nil {
		origin := r.Header.Get("Origin")
		log.Error().Err(err).Caller().Msgf("host=%s origin=%s", r.Host, origin)
		return
	}

	ch := make(chan any, 16)

	subMu.Lock()
	subs[ws] = ch
	subMu.Unlock()

	log.Debug().Str("addr", ws.RemoteAddr().String()).Msg("[api] ws connect")

	// single writer per socket
	go func() {
		for v := range ch {
			_ = ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := ws.WriteJSON(v); err != nil {
				log.Trace().Err(err).Caller().Send()
				_ = ws.Close()
				return
			}
		}
	}()

	// drain the socket just to learn when the client leaves
	for {
		if _, _, err = ws.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNoStatusReceived, websocket.CloseNormalClosure) {
				log.Trace().Err(err).Caller().Send()
			}
			break
		}
	}

	subMu.Lock()
	delete(subs, ws)
	subMu.Unlock()

	close(ch)
	_ = ws.Close()

	log.Debug().Str("addr", ws.RemoteAddr().String()).Msg("[api] ws disconnect")
}
