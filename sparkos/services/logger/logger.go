// Package logger is the log sink task. Lines arrive as MsgLogLine and are
// written to the HAL logger stamped with the kernel tick.
package logger

import (
	"fmt"

	"sparkcalc/hal"
	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

type Service struct {
	log hal.Logger
	ep  kernel.Capability
}

func New(log hal.Logger, ep kernel.Capability) *Service {
	return &Service{log: log, ep: ep}
}

func (s *Service) Run(ctx *kernel.Context) {
	msgs, ok := ctx.RecvChan(s.ep)
	if !ok || s.log == nil {
		return
	}
	for msg := range msgs {
		if proto.Kind(msg.Kind) != proto.MsgLogLine {
			continue
		}
		s.log.WriteLine(stamp(ctx.NowTick(), msg.Payload()))
	}
}

// stamp prefixes line with the tick as seconds.milliseconds.
func stamp(tick uint64, line []byte) string {
	return fmt.Sprintf("[%4d.%03d] %s", tick/1000, tick%1000, line)
}
