// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/gorilla/websocket"

	"github.com/seirchain/seird/messagebus"
)

const (
	writeTimeout = 5 * time.Second
	pingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Feed - websocket event stream
type Feed struct {
	sync.Mutex

	log         *logger.L
	queue       <-chan messagebus.Message
	connections map[*websocket.Conn]struct{}
	server      *http.Server
}

// NewFeed - create a feed; if listen is not empty Run also serves it
func NewFeed(listen string, bus *messagebus.Bus) *Feed {
	f := &Feed{
		log:         logger.New("websocket"),
		queue:       bus.Chan(1000),
		connections: make(map[*websocket.Conn]struct{}),
	}
	if "" != listen {
		f.server = &http.Server{
			Addr:    listen,
			Handler: f,
		}
	}
	return f
}

// Connections - number of connected clients
func (f *Feed) Connections() int {
	f.Lock()
	defer f.Unlock()
	return len(f.connections)
}

// ServeHTTP - upgrade and hold a client until it disconnects
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if nil != err {
		f.log.Errorf("upgrade error: %s", err)
		return
	}

	f.Lock()
	f.connections[conn] = struct{}{}
	f.Unlock()
	f.log.Infof("connected: %s", conn.RemoteAddr())

	// clients only listen, reading detects the close
	for {
		if _, _, err := conn.NextReader(); nil != err {
			break
		}
	}

	f.drop(conn)
}

func (f *Feed) drop(conn *websocket.Conn) {
	f.Lock()
	_, ok := f.connections[conn]
	delete(f.connections, conn)
	f.Unlock()
	if ok {
		conn.Close()
		f.log.Infof("disconnected: %s", conn.RemoteAddr())
	}
}

// Run - forward bus events to every client until shutdown
func (f *Feed) Run(args interface{}, shutdown <-chan struct{}) {

	log := f.log

	log.Info("starting…")

	if nil != f.server {
		go func() {
			if err := f.server.ListenAndServe(); nil != err && http.ErrServerClosed != err {
				log.Errorf("listen: %q  error: %s", f.server.Addr, err)
			}
		}()
	}

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ping.C:
			f.each(func(conn *websocket.Conn) error {
				return conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
			})
		case item, ok := <-f.queue:
			if !ok {
				break loop
			}
			e, ok := eventFromMessage(item)
			if !ok {
				continue loop
			}
			f.each(func(conn *websocket.Conn) error {
				conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				return conn.WriteJSON(e)
			})
		}
	}

	if nil != f.server {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		_ = f.server.Shutdown(ctx)
		cancel()
	}
	f.each(func(conn *websocket.Conn) error {
		return websocket.ErrCloseSent
	})
	log.Info("stopped")
}

// apply a write to every connection, dropping those that fail
func (f *Feed) each(write func(*websocket.Conn) error) {
	f.Lock()
	connections := make([]*websocket.Conn, 0, len(f.connections))
	for conn := range f.connections {
		connections = append(connections, conn)
	}
	f.Unlock()

	for _, conn := range connections {
		if err := write(conn); nil != err {
			if websocket.ErrCloseSent != err {
				f.log.Warnf("write: %s  error: %s", conn.RemoteAddr(), err)
			}
			f.drop(conn)
		}
	}
}
