// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"
)

// maximum UDP payload
const maxDatagramSize = 65535

type MonitorOptions struct {
	GtpcAddr string
	GtpcPort string
	GtpuAddr string
	GtpuPort string
}

// Monitor decodes and logs every datagram received on the GTP-C and
// GTP-U ports. It never replies.
type Monitor struct {
	options *MonitorOptions
	logger  *zap.Logger
	metrics *Metrics
}

func NewMonitor(o *MonitorOptions, logger *zap.Logger, metrics *Metrics) *Monitor {
	return &Monitor{
		options: o,
		logger:  logger,
		metrics: metrics,
	}
}

// Run listens on both planes until ctx is cancelled or a socket fails.
func (m *Monitor) Run(ctx context.Context) error {
	gtpc, err := net.ListenPacket("udp", net.JoinHostPort(m.options.GtpcAddr, m.options.GtpcPort))
	if err != nil {
		return fmt.Errorf("failed to listen GTP-C: %w", err)
	}
	gtpu, err := net.ListenPacket("udp", net.JoinHostPort(m.options.GtpuAddr, m.options.GtpuPort))
	if err != nil {
		gtpc.Close()
		return fmt.Errorf("failed to listen GTP-U: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, l := range []struct {
		plane Plane
		conn  net.PacketConn
	}{
		{PlaneControl, gtpc},
		{PlaneUser, gtpu},
	} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.Serve(ctx, l.plane, l.conn); err != nil {
				errs[i] = err
				cancel()
			}
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

// Serve reads datagrams of plane from conn until ctx is cancelled. conn is
// closed on return.
func (m *Monitor) Serve(ctx context.Context, plane Plane, conn net.PacketConn) error {
	m.logger.Info("GTP listen", zap.String("plane", plane.String()), zap.String("listenInfo", conn.LocalAddr().String()))

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer func() {
		if stop() {
			conn.Close()
		}
	}()

	buf := make([]byte, maxDatagramSize)
	for {
		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read %s datagram: %w", plane, err)
		}
		m.handle(plane, peer, buf[:n])
	}
}

func (m *Monitor) handle(plane Plane, peer net.Addr, data []byte) {
	m.metrics.received(plane, len(data))
	d, err := Decode(plane, data)
	if err != nil {
		m.metrics.failed(plane)
		m.logger.Info("Failed to decode datagram",
			zap.String("plane", plane.String()),
			zap.String("peer", peer.String()),
			zap.Int("length", len(data)),
			zap.Error(err))
		return
	}
	m.metrics.decoded(d)
	m.logger.Debug("Received message",
		zap.String("peer", peer.String()),
		zap.Object("datagram", d))
}
