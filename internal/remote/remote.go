package remote

import (
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sstvd/sstvd/internal/api"
	"github.com/sstvd/sstvd/internal/api/ws"
	"github.com/sstvd/sstvd/internal/app"
	"github.com/sstvd/sstvd/pkg/keys"
	"github.com/sstvd/sstvd/pkg/sstv"
)

func Init() {
	var cfg struct {
		Mod struct {
			Host         string `yaml:"host"`
			Port         uint16 `yaml:"port"`
			Name         string `yaml:"name"`
			MAC          string `yaml:"mac"`
			AuthTimeout  int    `yaml:"auth_timeout"`  // seconds
			RecvTimeout  int    `yaml:"recv_timeout"`  // seconds
			AuthAttempts int    `yaml:"auth_attempts"` //
			KeyDelay     int    `yaml:"key_delay"`     // milliseconds between channel digits
			Listen       bool   `yaml:"listen"`
		} `yaml:"remote"`
	}

	cfg.Mod.Name = "sstvd"
	cfg.Mod.KeyDelay = 100

	app.LoadConfig(&cfg)

	if cfg.Mod.Host == "" {
		return
	}

	log = app.GetLogger("remote")

	conf = sstv.Config{
		AppLabel:     cfg.Mod.Name,
		Host:         cfg.Mod.Host,
		Port:         cfg.Mod.Port,
		MAC:          cfg.Mod.MAC,
		AuthTimeout:  time.Duration(cfg.Mod.AuthTimeout) * time.Second,
		RecvTimeout:  time.Duration(cfg.Mod.RecvTimeout) * time.Second,
		AuthAttempts: cfg.Mod.AuthAttempts,
	}
	keyDelay = time.Duration(cfg.Mod.KeyDelay) * time.Millisecond

	client = sstv.NewClient(conf)
	client.SetLogger(log)

	api.HandleFunc("api/send", sendHandler)
	api.HandleFunc("api/keys", keysHandler)

	if cfg.Mod.Listen {
		receiver = sstv.NewReceiver(conf)
		receiver.SetLogger(log)
		receiver.Listen(nil, onEvent)

		go func() {
			if err := receiver.Start(); err != nil {
				log.Error().Err(err).Msg("[remote] listen")
			}
		}()
	}
}

// Shutdown stops the event worker and drops the command connection.
func Shutdown() {
	if receiver != nil {
		receiver.Wait()
	}
	if client != nil {
		mu.Lock()
		_ = client.Close()
		mu.Unlock()
	}
}

var log zerolog.Logger
var conf sstv.Config
var keyDelay time.Duration

// client sends commands, receiver listens for events. Each owns its
// own connection, the device accepts multiple sessions.
var client *sstv.Client
var receiver *sstv.Receiver

// mu serializes API requests over the single command connection.
var mu sync.Mutex

type event struct {
	Kind    byte   `json:"kind"`
	Sender  string `json:"sender"`
	Payload string `json:"payload"` // hex
}

func onEvent(msg sstv.Message) {
	log.Info().Stringer("msg", msg).Msg("[remote] event")
	ws.Broadcast(event{
		Kind:    msg.Kind,
		Sender:  msg.Sender,
		Payload: hex.EncodeToString([]byte(msg.Payload)),
	})
}

func sendHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()

	mu.Lock()
	defer mu.Unlock()

	switch {
	case query.Has("key"):
		key := query.Get("key")
		if !keys.Valid(key) {
			http.Error(w, "unknown key code: "+key, http.StatusBadRequest)
			return
		}
		if _, err := client.SendKey(key); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}

	case query.Has("text"):
		if _, err := client.SendText(query.Get("text")); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}

	case query.Has("channel"):
		channel, err := strconv.Atoi(query.Get("channel"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err = client.SetChannel(channel, keyDelay); errors.Is(err, sstv.ErrInvalidChannel) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		} else if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}

	default:
		http.Error(w, "key, text or channel required", http.StatusBadRequest)
		return
	}

	api.Response(w, "OK", api.MimeText)
}

func keysHandler(w http.ResponseWriter, r *http.Request) {
	api.ResponseJSON(w, keys.All())
}
