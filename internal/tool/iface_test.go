package tool

import (
	"context"
	"strings"
	"testing"
)

const shutConfig = `interface GigabitEthernet0/1
 ip address 192.0.2.1 255.255.255.0
 shutdown
end`

const upConfig = `interface GigabitEthernet0/1
 ip address 192.0.2.1 255.255.255.0
end`

func TestParseIfaceArgument(t *testing.T) {
	tests := []struct {
		name         string
		argument     string
		wantIface    string
		wantShutdown bool
		wantErr      bool
	}{
		{"shutdown", "GigabitEthernet0/1 shutdown", "GigabitEthernet0/1", true, false},
		{"noshutdown", "GigabitEthernet0/1 noshutdown", "GigabitEthernet0/1", false, false},
		{"prefix match upper", "Gi0/1 SHUT", "Gi0/1", true, false},
		{"non-shut action means no shutdown", "Gi0/1 up", "Gi0/1", false, false},
		{"one token", "GigabitEthernet0/1", "", false, true},
		{"three tokens", "Gi0/1 shut down", "", false, true},
		{"empty", "", "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseIfaceArgument(tt.argument)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got.iface != tt.wantIface || got.shutdown != tt.wantShutdown {
				t.Fatalf("parsed %+v, want iface=%q shutdown=%v", got, tt.wantIface, tt.wantShutdown)
			}
		})
	}
}

func TestIfaceConfig_ShutAppliesWhenInterfaceUp(t *testing.T) {
	d := newFakeDialer(map[string]string{"show run interface GigabitEthernet0/1": upConfig})
	tool := NewIfaceConfigTool(d, testParams(), testLogger())

	out := tool.Run(context.Background(), "GigabitEthernet0/1 shutdown")
	if !isOK(out) {
		t.Fatalf("expected OK result, got %q", out)
	}
	if !strings.Contains(out, "GigabitEthernet0/1") {
		t.Fatalf("OK result must name the interface, got %q", out)
	}

	sess := d.sess
	wantCommands := []string{
		"show run interface GigabitEthernet0/1",
		"interface GigabitEthernet0/1",
		"shutdown",
	}
	if len(sess.commands) != len(wantCommands) {
		t.Fatalf("issued %v, want %v", sess.commands, wantCommands)
	}
	for i := range wantCommands {
		if sess.commands[i] != wantCommands[i] {
			t.Fatalf("command[%d] = %q, want %q", i, sess.commands[i], wantCommands[i])
		}
	}
	if sess.enables != 1 || sess.configs != 1 || sess.exits != 1 {
		t.Fatalf("expected enable/config/exit once each, got %d/%d/%d", sess.enables, sess.configs, sess.exits)
	}
}

func TestIfaceConfig_ShutSkipsWhenAlreadyShut(t *testing.T) {
	d := newFakeDialer(map[string]string{"show run interface GigabitEthernet0/1": shutConfig})
	tool := NewIfaceConfigTool(d, testParams(), testLogger())

	// Idempotence: both invocations skip, config mode is never entered.
	for i := 0; i < 2; i++ {
		out := tool.Run(context.Background(), "GigabitEthernet0/1 shutdown")
		if !isSkip(out) {
			t.Fatalf("call %d: expected SKIP result, got %q", i+1, out)
		}
	}
	if d.sess.configs != 0 || d.sess.enables != 0 {
		t.Fatalf("config mode must never be entered on skip, got enables=%d configs=%d", d.sess.enables, d.sess.configs)
	}
}

func TestIfaceConfig_NoShutSkipsWhenAlreadyUp(t *testing.T) {
	d := newFakeDialer(map[string]string{"show run interface GigabitEthernet0/1": upConfig})
	tool := NewIfaceConfigTool(d, testParams(), testLogger())

	for i := 0; i < 2; i++ {
		out := tool.Run(context.Background(), "GigabitEthernet0/1 noshutdown")
		if !isSkip(out) {
			t.Fatalf("call %d: expected SKIP result, got %q", i+1, out)
		}
	}
	if d.sess.configs != 0 {
		t.Fatalf("config mode must never be entered on skip, got %d", d.sess.configs)
	}
}

func TestIfaceConfig_NoShutAppliesWhenShut(t *testing.T) {
	d := newFakeDialer(map[string]string{"show run interface GigabitEthernet0/1": shutConfig})
	tool := NewIfaceConfigTool(d, testParams(), testLogger())

	out := tool.Run(context.Background(), "GigabitEthernet0/1 noshutdown")
	if !isOK(out) {
		t.Fatalf("expected OK result, got %q", out)
	}
	last := d.sess.commands[len(d.sess.commands)-1]
	if last != "no shutdown" {
		t.Fatalf("expected final command 'no shutdown', got %q", last)
	}
}

func TestIfaceConfig_MalformedArgumentOpensNoSession(t *testing.T) {
	d := newFakeDialer(nil)
	tool := NewIfaceConfigTool(d, testParams(), testLogger())

	out := tool.Run(context.Background(), "GigabitEthernet0/1")
	if !isError(out) {
		t.Fatalf("expected error result, got %q", out)
	}
	if d.dials != 0 {
		t.Fatalf("no session must be opened for malformed input, got %d dials", d.dials)
	}
}

func TestIfaceConfig_TransportFailureMidSequence(t *testing.T) {
	sess := &fakeSession{
		outputs: map[string]string{"show run interface Gi0/1": upConfig},
		failOn:  "interface Gi0/1",
	}
	d := &fakeDialer{sess: sess}
	tool := NewIfaceConfigTool(d, testParams(), testLogger())

	out := tool.Run(context.Background(), "Gi0/1 shutdown")
	if !isError(out) {
		t.Fatalf("expected in-band error, got %q", out)
	}
	if sess.closed != 1 {
		t.Fatalf("session must be closed after mid-sequence failure, got %d closes", sess.closed)
	}
}

func TestIfaceConfig_ConnectFailure(t *testing.T) {
	d := &fakeDialer{dialErr: errTest}
	tool := NewIfaceConfigTool(d, testParams(), testLogger())

	out := tool.Run(context.Background(), "Gi0/1 shutdown")
	if !isError(out) {
		t.Fatalf("expected in-band error, got %q", out)
	}
}
