// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This code is a modified version of LimitListener from
// golang.org/x/net/netutil. Instead of blocking until a connection slot
// frees up, connections over the limit are accepted and immediately closed.

// Package limitlistener provides access to a rejecting limit listener.
package limitlistener

import (
	"net"
	"sync"

	"github.com/algorand/go-arbiter/logging"
)

// RejectingLimitListener returns a Listener that accepts at most n
// simultaneous connections from the provided Listener. Connections over the
// limit are closed right after being accepted. log may be nil.
func RejectingLimitListener(l net.Listener, n uint64, log logging.Logger) net.Listener {
	return &rejectingLimitListener{
		Listener: l,
		sem:      make(chan struct{}, n),
		log:      log,
	}
}

type rejectingLimitListener struct {
	net.Listener
	sem chan struct{}
	log logging.Logger
}

// acquire acquires the limiting semaphore. Returns false if the semaphore
// is already at capacity.
func (l *rejectingLimitListener) acquire() bool {
	select {
	case l.sem <- struct{}{}:
		return true
	default:
		return false
	}
}

func (l *rejectingLimitListener) release() {
	<-l.sem
}

func (l *rejectingLimitListener) Accept() (net.Conn, error) {
	for {
		c, err := l.Listener.Accept()
		if err != nil {
			return nil, err
		}
		if !l.acquire() {
			if l.log != nil {
				l.log.Debugf("rejectingLimitListener rejecting connection from %s", c.RemoteAddr())
			}
			c.Close()
			continue
		}
		return &rejectingLimitListenerConn{Conn: c, release: l.release}, nil
	}
}

type rejectingLimitListenerConn struct {
	net.Conn
	releaseOnce sync.Once
	release     func()
}

func (c *rejectingLimitListenerConn) Close() error {
	err := c.Conn.Close()
	c.releaseOnce.Do(c.release)
	return err
}
