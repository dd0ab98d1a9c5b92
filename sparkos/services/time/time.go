// Package timesvc provides one-shot wakeups in kernel ticks.
package timesvc

import (
	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

const maxSleepers = 32

type sleeper struct {
	inUse bool
	due   uint64
	id    uint32
	reply kernel.Capability
}

type Service struct {
	ep kernel.Capability

	now      uint64
	sleepers [maxSleepers]sleeper
}

func New(ep kernel.Capability) *Service {
	return &Service{ep: ep}
}

func (s *Service) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(s.ep)
	if !ok {
		return
	}

	done := make(chan struct{})
	defer close(done)
	tickCh := ctx.Ticks(done)

	s.now = ctx.NowTick()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.now = ctx.NowTick()
			s.handle(ctx, msg)
			s.wakeReady(ctx)
		case <-tickCh:
			s.now = ctx.NowTick()
			s.wakeReady(ctx)
		}
	}
}

func (s *Service) handle(ctx *kernel.Context, msg kernel.Message) {
	if proto.Kind(msg.Kind) != proto.MsgSleep || !msg.Cap.Valid() {
		return
	}

	req, ok := proto.DecodeSleep(msg.Payload())
	if !ok {
		reject(ctx, msg.Cap, proto.Error{Code: proto.ErrBadMessage, Ref: proto.MsgSleep})
		return
	}
	if req.Ticks == 0 {
		_ = ctx.SendToCapResult(msg.Cap, uint16(proto.MsgWake), proto.WakePayload(req.ID), kernel.Capability{})
		return
	}
	if !s.schedule(s.now+uint64(req.Ticks), req.ID, msg.Cap) {
		reject(ctx, msg.Cap, proto.Error{Code: proto.ErrOverflow, Ref: proto.MsgSleep, RequestID: req.ID})
	}
}

func reject(ctx *kernel.Context, reply kernel.Capability, e proto.Error) {
	_ = ctx.SendToCapResult(reply, uint16(proto.MsgError), e.Payload(), kernel.Capability{})
}

func (s *Service) schedule(due uint64, requestID uint32, reply kernel.Capability) bool {
	for i := range s.sleepers {
		if s.sleepers[i].inUse {
			continue
		}
		s.sleepers[i] = sleeper{inUse: true, due: due, id: requestID, reply: reply}
		return true
	}
	return false
}

// wakeReady sends due wakeups. A wake that hits a full queue is retried on
// the next tick.
func (s *Service) wakeReady(ctx *kernel.Context) {
	for i := range s.sleepers {
		sl := &s.sleepers[i]
		if !sl.inUse || sl.due > s.now {
			continue
		}
		res := ctx.SendToCapResult(sl.reply, uint16(proto.MsgWake), proto.WakePayload(sl.id), kernel.Capability{})
		if res == kernel.SendErrQueueFull {
			continue
		}
		*sl = sleeper{}
	}
}
