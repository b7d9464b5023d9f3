// internal/writer/modbus/client_test.go
package modbus

import "testing"

func TestPackRegisters(t *testing.T) {
	got := packRegisters([]uint16{0x0102, 0xA0FF})
	want := []byte{0x01, 0x02, 0xA0, 0xFF}
	if len(got) != len(want) {
		t.Fatalf("len = %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestNewEndpointClient_RequiresEndpoint(t *testing.T) {
	if _, err := NewEndpointClient(Config{}); err == nil {
		t.Fatalf("expected error")
	}
	c, err := NewEndpointClient(Config{Endpoint: "127.0.0.1:1502"})
	if err != nil {
		t.Fatalf("construction should not dial: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close on unopened client: %v", err)
	}
}
