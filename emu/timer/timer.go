/*
 * HP2100 - Host clock ticker for the time base generator
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package timer

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rcornwell/HP2100/emu/master"
)

// Tick interval of the time base generator.
const DefaultPeriod = 10 * time.Millisecond

type Timer struct {
	wg      sync.WaitGroup
	running bool // Ticks are delivered.
	period  time.Duration
	master  chan master.Packet
	enable  chan bool     // Enable or disable timer.
	done    chan struct{} // Stop timer task.
	ticker  *time.Ticker
}

// Create a timer delivering ticks every period on masterChannel.
func NewTimer(masterChannel chan master.Packet, period time.Duration) *Timer {
	if period <= 0 {
		period = DefaultPeriod
	}
	timer := &Timer{
		master: masterChannel,
		period: period,
		enable: make(chan bool, 1),
		done:   make(chan struct{}),
	}
	timer.wg.Add(1)
	go timer.run()
	return timer
}

// Start delivering ticks.
func (timer *Timer) Start() {
	timer.enable <- true
}

// Stop delivering ticks, the goroutine keeps running.
func (timer *Timer) Stop() {
	timer.enable <- false
}

// Shutdown ticker goroutine.
func (timer *Timer) Shutdown() {
	close(timer.done)
	done := make(chan struct{})
	go func() {
		timer.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		slog.Warn("Timed out waiting for timer to finish.")
	}
}

func (timer *Timer) run() {
	defer timer.wg.Done()
	timer.ticker = time.NewTicker(timer.period)
	defer timer.ticker.Stop()

	for {
		select {
		case <-timer.ticker.C:
			if !timer.running {
				continue
			}
			// Drop the tick if the core is not listening.
			select {
			case timer.master <- master.Packet{Msg: master.TimeClock}:
			case <-timer.done:
				return
			}
		case timer.running = <-timer.enable:
			if timer.running {
				timer.ticker.Reset(timer.period)
			}
		case <-timer.done:
			return
		}
	}
}
