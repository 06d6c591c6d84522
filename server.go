package main

import (
	"net"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

var upgrader = websocket.Upgrader{
	ReadBufferSize:  512,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

// FeedRoutes configures the spectator endpoints:
// /ws streams frames, /qr renders the /ws link as a PNG QR code
func FeedRoutes(feed *Feed, auth *FeedAuth) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		if err := auth.Allow(r.URL.Query().Get("token")); err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Debug("feed: upgrade", "err", err)
			return
		}
		s := newSpectator(feed, conn)
		if !feed.add(s) {
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too many spectators"))
			conn.Close()
			return
		}
		go s.writePump()
		go s.readPump()
	})

	mux.HandleFunc("/qr", func(w http.ResponseWriter, r *http.Request) {
		tok := r.URL.Query().Get("token")
		if err := auth.Allow(tok); err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		png, err := qrcode.Encode(spectatorURL(r.Host, tok), qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr encode failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(png)
	})

	return mux
}

// spectatorURL is the websocket address a spectator connects to
func spectatorURL(host, token string) string {
	u := url.URL{Scheme: "ws", Host: host, Path: "/ws"}
	if token != "" {
		u.RawQuery = url.Values{"token": {token}}.Encode()
	}
	return u.String()
}

// ServeFeed starts the spectator server on addr. The listener is bound
// before returning so address errors surface to the caller.
func ServeFeed(addr string, feed *Feed, auth *FeedAuth) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	server := &http.Server{Addr: ln.Addr().String(), Handler: FeedRoutes(feed, auth)}
	go func() {
		if err := server.Serve(ln); err != http.ErrServerClosed {
			log.Warn("feed server stopped", "err", err)
		}
	}()
	log.Info("spectator feed listening", "addr", ln.Addr().String())
	return server, nil
}
