package permission

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// TerminalPlatform is the capability store of a terminal host. Grants live
// for the process and can be revoked at any time.
type TerminalPlatform struct {
	mu     sync.Mutex
	grants Grants
	in     *bufio.Reader
	out    io.Writer
}

func NewTerminalPlatform(in io.Reader, out io.Writer, initial Grants) *TerminalPlatform {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	return &TerminalPlatform{grants: initial, in: br, out: out}
}

// ParseGrants reads the LOCATION_PERMISSION style value: fine, coarse, both or none.
func ParseGrants(s string) (Grants, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return Grants{}, nil
	case "fine":
		return Grants{Fine: true}, nil
	case "coarse":
		return Grants{Coarse: true}, nil
	case "both":
		return Grants{Fine: true, Coarse: true}, nil
	default:
		return Grants{}, fmt.Errorf("permission: unknown grant %q", s)
	}
}

func (p *TerminalPlatform) Check(ctx context.Context) Grants {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.grants
}

func (p *TerminalPlatform) Revoke() {
	p.mu.Lock()
	p.grants = Grants{}
	p.mu.Unlock()
}

func (p *TerminalPlatform) Request(ctx context.Context) (Grants, error) {
	fine, err := p.ask(ctx, "Allow this app to access your precise location? [y/N] ")
	if err != nil {
		return Grants{}, err
	}
	coarse := fine
	if !fine {
		coarse, err = p.ask(ctx, "Allow this app to access your approximate location? [y/N] ")
		if err != nil {
			return Grants{}, err
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.grants = Grants{Fine: fine, Coarse: coarse}
	return p.grants, nil
}

func (p *TerminalPlatform) ask(ctx context.Context, question string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, err := io.WriteString(p.out, question); err != nil {
		return false, err
	}
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
