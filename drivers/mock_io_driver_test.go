package drivers

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func assertBools(t testing.TB, got, want bool) {
	t.Helper()

	if got != want {
		t.Errorf("got %v want %v", got, want)
	}
}

func assertUint16Slices(t testing.TB, got, want []uint16) {
	t.Helper()

	if len(got) != len(want) {
		t.Errorf("len(got) = %d len(want) = %d", len(got), len(want))
		return
	}

	for key, val := range got {
		if want[key] != val {
			t.Errorf("for key [%d] got: %d want: %d", key, val, want[key])
		}
	}
}

func setupMock(t testing.TB, inputs, outputs []uint16) *MockIoDriver {
	t.Helper()

	md := &MockIoDriver{}
	if err := md.Setup(context.Background(), inputs, outputs); err != nil {
		t.Fatalf("Setup returned err: %v", err)
	}
	return md
}

func TestMockIoSetup(t *testing.T) {
	md := MockIoDriver{}

	assertBools(t, md.IsReady(), false)

	md.Setup(context.Background(), []uint16{1, 3, 5}, []uint16{2, 4})
	assertBools(t, md.IsReady(), true)
}

func TestMockIoGetAllIo(t *testing.T) {
	md := setupMock(t, []uint16{1, 3, 5}, []uint16{2, 4})
	inputs, outputs := md.GetAllIo()
	assertUint16Slices(t, inputs, []uint16{1, 3, 5})
	assertUint16Slices(t, outputs, []uint16{2, 4})
}

func TestMockInputStartsReleased(t *testing.T) {
	md := setupMock(t, []uint16{7}, nil)
	input, err := md.GetInput(7)
	if err != nil {
		t.Fatal(err)
	}

	got, _ := input.GetState()
	assertBools(t, got, true)

	md.SetInput(7, false)
	got, _ = input.GetState()
	assertBools(t, got, false)

	if err := md.SetInput(8, false); err == nil {
		t.Error("SetInput on unknown pin returned nil error")
	}
}

func TestMockGetOutput(t *testing.T) {
	md := setupMock(t, []uint16{}, []uint16{3})
	output, err := md.GetOutput(3)
	if err != nil {
		t.Errorf("GetOutput returned err: %v", err)
	}

	want := true
	output.Set(want)
	got, _ := output.GetState()
	assertBools(t, got, want)

	anotherOut, _ := md.GetOutput(3)
	got, _ = anotherOut.GetState()
	assertBools(t, got, want)

	want = false
	output.Set(want)
	got, _ = output.GetState()
	assertBools(t, got, want)

	if _, err := md.GetOutput(4); err == nil {
		t.Error("GetOutput on unknown pin returned nil error")
	}
}

func TestMockMonitorStateChanges(t *testing.T) {
	md := setupMock(t, nil, []uint16{9})
	buf := &bytes.Buffer{}
	md.MonitorStateChanges(buf)

	out, _ := md.GetOutput(9)
	out.Set(true)
	out.Set(true)
	out.Set(false)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines want 2: %q", len(lines), buf.String())
	}
	if lines[0] != "[pin 9] state changed to true" {
		t.Errorf("got %q", lines[0])
	}
}

func TestMockCloseTurnsOutputsOff(t *testing.T) {
	md := setupMock(t, nil, []uint16{1, 2})
	for _, pin := range []uint16{1, 2} {
		out, _ := md.GetOutput(pin)
		out.Set(true)
	}

	md.Close()
	for _, pin := range []uint16{1, 2} {
		out, _ := md.GetOutput(pin)
		got, _ := out.GetState()
		assertBools(t, got, false)
	}
	assertBools(t, md.IsReady(), false)
}
