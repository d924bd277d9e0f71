package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakePinger struct {
	up bool
}

func (p *fakePinger) Ping(context.Context) bool { return p.up }

func TestMonitor_Refresh(t *testing.T) {
	pinger := &fakePinger{up: true}
	m := New(pinger, time.Minute, nil)

	m.refresh()
	assert.True(t, m.IsOnline())
	status := m.GetStatus()
	assert.True(t, status.Upstream)
	assert.False(t, status.LastCheck.IsZero())

	pinger.up = false
	m.refresh()
	assert.False(t, m.IsOnline())
}

func TestMonitor_NilPingerIsOffline(t *testing.T) {
	m := New(nil, time.Minute, nil)
	m.refresh()
	assert.False(t, m.IsOnline())
}

func TestMonitor_StartStop(t *testing.T) {
	m := New(&fakePinger{up: true}, 10*time.Millisecond, nil)
	m.Start()

	assert.Eventually(t, m.IsOnline, time.Second, 5*time.Millisecond)
	m.Stop()
}
