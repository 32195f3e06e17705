package models

import "fmt"

// InodeType identifies the kind of inode a size sample belongs to. The
// values match the Robinhood 'type' column so they can be used directly in
// query parameters.
type InodeType string

const (
	TypeFile    InodeType = "file"
	TypeDir     InodeType = "dir"
	TypeSymlink InodeType = "symlink"
	TypeBlk     InodeType = "blk"
	TypeChr     InodeType = "chr"
	TypeFifo    InodeType = "fifo"
	TypeSock    InodeType = "sock"
)

// AllInodeTypes lists every known inode type in canonical column order.
var AllInodeTypes = []InodeType{
	TypeFile,
	TypeDir,
	TypeSymlink,
	TypeBlk,
	TypeChr,
	TypeFifo,
	TypeSock,
}

// ParseInodeType maps a type tag from a source table to an InodeType.
func ParseInodeType(s string) (InodeType, error) {
	for _, t := range AllInodeTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown inode type %q", s)
}

// TableName returns the per-type size table name used by the sizetables
// layout, e.g. "files" for TypeFile.
func (t InodeType) TableName() string {
	return string(t) + "s"
}

// ColumnName returns the histogram CSV column for this type, e.g.
// "num_files".
func (t InodeType) ColumnName() string {
	return "num_" + t.TableName()
}

// ModePrefix returns the leading character of the 'mode' field in
// mmapplypolicy output that marks this inode type.
func (t InodeType) ModePrefix() string {
	switch t {
	case TypeFile:
		return "-"
	case TypeDir:
		return "d"
	case TypeSymlink:
		return "l"
	case TypeBlk:
		return "b"
	case TypeChr:
		return "c"
	case TypeFifo:
		return "p"
	case TypeSock:
		return "s"
	}
	return ""
}
