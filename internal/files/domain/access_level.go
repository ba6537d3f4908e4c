package domain

// AccessLevel is the effective access a requester has on a file.
//
// The zero value is AccessNone. Only AccessView and AccessDownload can be granted;
// AccessOwner is derived from file ownership.
type AccessLevel uint8

const (
	// AccessNone grants nothing and must be reported as "file not found".
	AccessNone AccessLevel = iota
	// AccessView allows reading metadata but not content.
	AccessView
	// AccessDownload allows reading metadata and decrypted content.
	AccessDownload
	// AccessOwner allows everything, including sharing and public links.
	AccessOwner
)

// ParseGrantLevel parses the wire representation of a grantable level.
func ParseGrantLevel(s string) (AccessLevel, error) {
	switch s {
	case "view":
		return AccessView, nil
	case "download":
		return AccessDownload, nil
	default:
		return AccessNone, ErrInvalidAccessLevel
	}
}

// String returns the wire representation.
func (a AccessLevel) String() string {
	switch a {
	case AccessNone:
		return "none"
	case AccessView:
		return "view"
	case AccessDownload:
		return "download"
	case AccessOwner:
		return "owner"
	default:
		return "invalid"
	}
}

// IsGrantable reports whether the level can be stored in a share grant.
func (a AccessLevel) IsGrantable() bool {
	switch a {
	case AccessView, AccessDownload:
		return true
	default:
		return false
	}
}

// CanViewMetadata reports whether file metadata may be returned.
func (a AccessLevel) CanViewMetadata() bool {
	switch a {
	case AccessView, AccessDownload, AccessOwner:
		return true
	default:
		return false
	}
}

// CanDownload reports whether decrypted content may be returned.
func (a AccessLevel) CanDownload() bool {
	switch a {
	case AccessDownload, AccessOwner:
		return true
	default:
		return false
	}
}

// CanManage reports whether shares and public links may be changed.
func (a AccessLevel) CanManage() bool {
	return a == AccessOwner
}
