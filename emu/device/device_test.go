package device

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type fakeDevice struct {
	name    string
	ins     []uint16
	outs    []uint16
	lastOut uint32
}

func (d *fakeDevice) Name() string { return d.name }

func (d *fakeDevice) In(port uint16) (uint32, error) {
	d.ins = append(d.ins, port)
	return uint32(port) + 1, nil
}

func (d *fakeDevice) Out(port uint16, value uint32) error {
	d.outs = append(d.outs, port)
	d.lastOut = value
	return nil
}

func TestRouterDispatchesByRangeWithPortTranslation(t *testing.T) {
	r := NewRouter()
	a := &fakeDevice{name: "a"}
	b := &fakeDevice{name: "b"}
	if err := r.Register(0, 1, a); err != nil {
		t.Fatalf("Register a: %v", err)
	}
	if err := r.Register(10, 11, b); err != nil {
		t.Fatalf("Register b: %v", err)
	}

	v, err := r.In(11)
	if err != nil {
		t.Fatalf("In(11): %v", err)
	}
	if v != 2 {
		t.Fatalf("In(11) = %d, want 2 (b's port 1)", v)
	}
	if len(b.ins) != 1 || b.ins[0] != 1 {
		t.Fatalf("b saw ins %v, want [1] (port 11 translated to 1)", b.ins)
	}

	if err := r.Out(0, 42); err != nil {
		t.Fatalf("Out(0): %v", err)
	}
	if a.lastOut != 42 || len(a.outs) != 1 || a.outs[0] != 0 {
		t.Fatalf("a saw outs %v, lastOut %d, want [0] / 42", a.outs, a.lastOut)
	}
}

func TestRouterRejectsOverlappingRanges(t *testing.T) {
	r := NewRouter()
	if err := r.Register(0, 3, &fakeDevice{name: "a"}); err != nil {
		t.Fatalf("Register a: %v", err)
	}
	if err := r.Register(2, 5, &fakeDevice{name: "b"}); err == nil {
		t.Fatal("expected an overlap error registering [2,5] over [0,3]")
	}
}

func TestRouterUnboundPortErrors(t *testing.T) {
	r := NewRouter()
	if _, err := r.In(99); err == nil {
		t.Fatal("expected an error reading an unbound port")
	}
	if err := r.Out(99, 1); err == nil {
		t.Fatal("expected an error writing an unbound port")
	}
}

func TestConsoleDeviceReadWrite(t *testing.T) {
	in := strings.NewReader("A")
	var out bytes.Buffer
	c := NewConsoleDevice(in, &out)

	status, err := c.In(ConsolePortStatus)
	if err != nil {
		t.Fatalf("In(status): %v", err)
	}
	if status != 1 {
		t.Fatalf("status = %d, want 1 (byte pending)", status)
	}

	data, err := c.In(ConsolePortData)
	if err != nil {
		t.Fatalf("In(data): %v", err)
	}
	if data != 'A' {
		t.Fatalf("data = %d, want %d ('A')", data, 'A')
	}

	status, _ = c.In(ConsolePortStatus)
	if status != 0 {
		t.Fatalf("status after drain = %d, want 0", status)
	}

	if err := c.Out(ConsolePortData, 'Z'); err != nil {
		t.Fatalf("Out(data): %v", err)
	}
	if out.String() != "Z" {
		t.Fatalf("console wrote %q, want %q", out.String(), "Z")
	}
}

func TestTimerDeviceTicksAndReset(t *testing.T) {
	tm := NewTimerDevice()
	time.Sleep(2 * time.Millisecond)

	ticks, err := tm.In(TimerPortTicks)
	if err != nil {
		t.Fatalf("In(ticks): %v", err)
	}
	if ticks == 0 {
		t.Fatalf("expected nonzero elapsed ticks after sleeping")
	}

	if err := tm.Out(TimerPortReset, 0); err != nil {
		t.Fatalf("Out(reset): %v", err)
	}
	after, _ := tm.In(TimerPortTicks)
	if after > ticks {
		t.Fatalf("ticks after reset (%d) should not exceed pre-reset value (%d)", after, ticks)
	}
}

func TestRouterShutdownCallsDeviceShutdown(t *testing.T) {
	r := NewRouter()
	shut := &shutdownDevice{fakeDevice: fakeDevice{name: "s"}}
	if err := r.Register(0, 0, shut); err != nil {
		t.Fatalf("Register: %v", err)
	}
	r.Shutdown()
	if !shut.didShutdown {
		t.Fatal("expected Shutdown to be called on the registered device")
	}
}

type shutdownDevice struct {
	fakeDevice
	didShutdown bool
}

func (d *shutdownDevice) Shutdown() { d.didShutdown = true }
