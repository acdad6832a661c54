package model

import "testing"

func TestForwardingSignature_Matches(t *testing.T) {
	def := DefaultForwardingSignature()
	tests := []struct {
		name  string
		sig   ForwardingSignature
		probe *HTTPProbe
		want  bool
	}{
		{
			name: "namecheap forward header",
			sig:  def,
			probe: &HTTPProbe{
				StatusCode: 302,
				Headers:    map[string]string{"x-served-by": "Namecheap URL Forward"},
			},
			want: true,
		},
		{
			name: "parking page in location",
			sig:  def,
			probe: &HTTPProbe{
				StatusCode: 302,
				Location:   "http://parkingpage.example.net/",
			},
			want: true,
		},
		{
			name: "hosted response",
			sig:  def,
			probe: &HTTPProbe{
				StatusCode: 200,
				Server:     "GitHub.com",
				Headers:    map[string]string{"server": "GitHub.com"},
			},
			want: false,
		},
		{
			name:  "nil probe",
			sig:   def,
			probe: nil,
			want:  false,
		},
		{
			name: "header-restricted signature ignores other headers",
			sig:  ForwardingSignature{Header: "X-Served-By", Contains: []string{"forward"}},
			probe: &HTTPProbe{
				Location: "http://forward.example.net/",
				Headers:  map[string]string{"server": "forward-proxy"},
			},
			want: false,
		},
		{
			name: "header-restricted signature matches its header",
			sig:  ForwardingSignature{Header: "X-Served-By", Contains: []string{"forward"}},
			probe: &HTTPProbe{
				Headers: map[string]string{"x-served-by": "URL Forward"},
			},
			want: true,
		},
		{
			name:  "empty signature never matches",
			sig:   ForwardingSignature{},
			probe: &HTTPProbe{StatusCode: 302, Location: "http://parking.example.net/"},
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sig.Matches(tt.probe); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSnapshot_Partial(t *testing.T) {
	s := &Snapshot{}
	if s.Partial() {
		t.Errorf("snapshot without warnings should not be partial")
	}
	s.Warnings = []string{"probe: timeout"}
	if !s.Partial() {
		t.Errorf("snapshot with warnings should be partial")
	}
}
