package tool

import (
	"context"
	"testing"
)

func TestRouteTable_CommandSelection(t *testing.T) {
	tests := []struct {
		name     string
		argument string
		want     string
	}{
		{"empty defaults to ipv4", "", "show ip route"},
		{"explicit ipv4", "ipv4", "show ip route"},
		{"ipv6 lower", "ipv6", "show ipv6 route"},
		{"ipv6 upper", "IPV6", "show ipv6 route"},
		{"ipv6 mixed with spaces", "  IPv6  ", "show ipv6 route"},
		{"garbage falls back to ipv4", "ipx", "show ip route"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newFakeDialer(map[string]string{
				"show ip route":   "v4 routes",
				"show ipv6 route": "v6 routes",
			})
			tool := NewRouteTableTool(d, testParams(), testLogger())

			out := tool.Run(context.Background(), tt.argument)
			if len(d.sess.commands) != 1 || d.sess.commands[0] != tt.want {
				t.Fatalf("issued %v, want [%s]", d.sess.commands, tt.want)
			}
			if isError(out) {
				t.Fatalf("unexpected error result: %q", out)
			}
		})
	}
}

func TestRouteTable_ReturnsRawOutput(t *testing.T) {
	d := newFakeDialer(map[string]string{"show ip route": "S* 0.0.0.0/0 [1/0] via 10.0.0.254"})
	tool := NewRouteTableTool(d, testParams(), testLogger())

	out := tool.Run(context.Background(), "")
	if out != "S* 0.0.0.0/0 [1/0] via 10.0.0.254" {
		t.Fatalf("expected raw output passthrough, got %q", out)
	}
}

func TestRouteProto_CommandSelection(t *testing.T) {
	tests := []struct {
		argument string
		want     string
	}{
		{"bgp", "show ip bgp summary"},
		{"BGP", "show ip bgp summary"},
		{"ospf", "show ip ospf neighbor"},
		{"", "show ip bgp summary"}, // default
	}
	for _, tt := range tests {
		d := newFakeDialer(map[string]string{tt.want: "neighbors"})
		tool := NewRouteProtoTool(d, testParams(), testLogger())

		out := tool.Run(context.Background(), tt.argument)
		if len(d.sess.commands) != 1 || d.sess.commands[0] != tt.want {
			t.Fatalf("argument %q issued %v, want [%s]", tt.argument, d.sess.commands, tt.want)
		}
		if out != "neighbors" {
			t.Fatalf("argument %q: expected raw output, got %q", tt.argument, out)
		}
	}
}

func TestRouteProto_UnknownProtoIsValidationError(t *testing.T) {
	for _, arg := range []string{"rip", "eigrp", "is-is", "42"} {
		d := newFakeDialer(nil)
		tool := NewRouteProtoTool(d, testParams(), testLogger())

		out := tool.Run(context.Background(), arg)
		if !isError(out) {
			t.Fatalf("argument %q: expected error result, got %q", arg, out)
		}
		if d.dials != 0 {
			t.Fatalf("argument %q: no session must be opened, got %d dials", arg, d.dials)
		}
	}
}

func TestRouteTable_ConnectFailure(t *testing.T) {
	d := &fakeDialer{dialErr: errTest}
	tool := NewRouteTableTool(d, testParams(), testLogger())

	out := tool.Run(context.Background(), "ipv6")
	if !isError(out) {
		t.Fatalf("expected in-band error, got %q", out)
	}
}
