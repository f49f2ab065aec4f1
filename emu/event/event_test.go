/*
 * HP2100 - Event list test set
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

package event

import (
	"testing"
)

var stepCount uint64

type device struct {
	iarg int
	time uint64
	el   *List
	next *device
}

// Callback, save step count in routine time and set argument to iarg.
func (d *device) callback(iarg int) {
	d.iarg = iarg
	d.time = stepCount
}

// Callback which schedules event on next device.
func (d *device) chainCallback(iarg int) {
	d.iarg = iarg
	d.time = stepCount
	d.el.Add(d.next, d.next.callback, iarg, iarg)
}

// Initialize for each test.
func initTest() (*List, *device, *device, *device) {
	stepCount = 0
	el := New()
	devA := &device{el: el}
	devB := &device{el: el}
	devC := &device{el: el, next: devA}
	return el, devA, devB, devC
}

func run(el *List, n int) {
	for range n {
		stepCount++
		el.Advance(1)
	}
}

func TestAddEvent1(t *testing.T) {
	el, devA, _, _ := initTest()
	el.Add(devA, devA.callback, 10, 1)
	run(el, 20)
	if devA.time != 10 {
		t.Errorf("Event did not fire at correct time %d got %d", 10, devA.time)
	}
	if devA.iarg != 1 {
		t.Errorf("Event did not set data correct %d got %d", 1, devA.iarg)
	}
}

// Add events in various orders.
func TestAddEventOrder(t *testing.T) {
	tests := []struct {
		name  string
		timeA int
		timeB int
	}{
		{"later first", 10, 5},
		{"earlier first", 5, 10},
		{"same time", 10, 10},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			el, devA, devB, _ := initTest()
			el.Add(devA, devA.callback, test.timeA, 1)
			el.Add(devB, devB.callback, test.timeB, 2)
			run(el, 20)
			if devA.time != uint64(test.timeA) || devA.iarg != 1 {
				t.Errorf("Event A not correct got: %d %d expected: %d %d", devA.time, devA.iarg, test.timeA, 1)
			}
			if devB.time != uint64(test.timeB) || devB.iarg != 2 {
				t.Errorf("Event B not correct got: %d %d expected: %d %d", devB.time, devB.iarg, test.timeB, 2)
			}
		})
	}
}

// Add event during event.
func TestAddEventCallback(t *testing.T) {
	el, devA, _, devC := initTest()
	el.Add(devC, devC.chainCallback, 10, 7)
	run(el, 30)
	if devC.time != 10 {
		t.Errorf("Event C did not fire at correct time %d got %d", 10, devC.time)
	}
	if devA.time != 17 || devA.iarg != 7 {
		t.Errorf("Event A not correct got: %d %d expected: %d %d", devA.time, devA.iarg, 17, 7)
	}
}

// Cancel events while events in queue.
func TestCancelEvent(t *testing.T) {
	el, devA, devB, devC := initTest()
	el.Add(devA, devA.callback, 10, 5)
	el.Add(devB, devB.callback, 40, 2)
	el.Add(devC, devC.callback, 30, 3)
	el.Add(devC, devC.callback, 50, 4)
	if !el.Pending(devB, 2) {
		t.Errorf("Event B not pending")
	}
	for range 60 {
		stepCount++
		el.Advance(1)
		if devA.iarg == 5 {
			el.Cancel(devB, 2)
			el.Cancel(devC, 4)
		}
	}
	if devA.time != 10 {
		t.Errorf("Event A did not fire at correct time %d got %d", 10, devA.time)
	}
	if devB.time != 0 || devB.iarg != 0 {
		t.Errorf("Event B fired after cancel at %d", devB.time)
	}
	if devC.time != 30 || devC.iarg != 3 {
		t.Errorf("Event C not correct got: %d %d expected: %d %d", devC.time, devC.iarg, 30, 3)
	}
	if el.Pending(devB, 2) {
		t.Errorf("Event B still pending")
	}
}

// Advance by more than one cycle.
func TestAdvanceMany(t *testing.T) {
	el, devA, devB, _ := initTest()
	el.Add(devA, devA.callback, 3, 1)
	el.Add(devB, devB.callback, 5, 2)
	el.Advance(4)
	if devA.iarg != 1 || devB.iarg != 0 {
		t.Errorf("Advance 4 fired wrong events got: %d %d", devA.iarg, devB.iarg)
	}
	el.Advance(1)
	if devB.iarg != 2 {
		t.Errorf("Event B did not fire after 5 cycles")
	}
}

// Test event at zero units.
func TestAddEventZero(t *testing.T) {
	el, devA, _, _ := initTest()
	el.Add(devA, devA.callback, 0, 5)
	if devA.iarg != 5 {
		t.Errorf("Event A did not set data correct %d got %d", 5, devA.iarg)
	}
}

func TestClear(t *testing.T) {
	el, devA, _, _ := initTest()
	el.Add(devA, devA.callback, 5, 5)
	el.Clear()
	run(el, 10)
	if devA.iarg != 0 {
		t.Errorf("Cleared event fired")
	}
}
