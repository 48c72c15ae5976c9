package pr

import "strings"

const branchPrefix = "refs/heads/"

// BranchName is a fully qualified git branch reference such as
// refs/heads/main. The zero value is not a valid branch.
type BranchName struct {
	value string
}

// NewBranchName validates s against the git reference name rules.
func NewBranchName(s string) (BranchName, error) {
	if !isValidBranchName(s) {
		return BranchName{}, ErrInvalidBranchName.WithSubject(s)
	}
	return BranchName{value: s}, nil
}

func MustBranchName(s string) BranchName {
	b, err := NewBranchName(s)
	if err != nil {
		panic(err)
	}
	return b
}

func (b BranchName) String() string { return b.value }

func (b BranchName) IsZero() bool { return b.value == "" }

func (b BranchName) MarshalText() ([]byte, error) {
	return []byte(b.value), nil
}

func (b *BranchName) UnmarshalText(text []byte) error {
	v, err := NewBranchName(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

func isValidBranchName(s string) bool {
	if s == "@" || !strings.HasPrefix(s, branchPrefix) {
		return false
	}
	if strings.HasPrefix(s, "/") || strings.HasSuffix(s, "/") || strings.HasSuffix(s, ".") {
		return false
	}
	if strings.Contains(s, "//") || strings.Contains(s, "..") || strings.Contains(s, "@{") {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c == 0x7f {
			return false
		}
		switch c {
		case ' ', '\t', '\n', '\r', '\v', '\f', '~', '^', ':', '?', '*', '[', '\\':
			return false
		}
	}
	for _, seg := range strings.Split(s, "/") {
		if strings.HasPrefix(seg, ".") || strings.HasSuffix(seg, ".lock") {
			return false
		}
	}
	return true
}
