package domain

import (
	"fmt"
	"strings"
)

// CommitFieldSeparator separates the fields of a formatted commit log line.
const CommitFieldSeparator = " ;;;;; "

// CommitLogFormat is the git --pretty format producing lines understood by ParseCommitInfo.
var CommitLogFormat = strings.Join([]string{"%h", "%s", "%an", "%ar", "%ci"}, CommitFieldSeparator)

// CommitInfo describes a single revision.
type CommitInfo struct {
	Hash         string
	Message      string
	Author       string
	RelativeTime string
	ISOTimestamp string
}

// ParseCommitInfo parses a log line made of short hash, subject, author name,
// relative age and ISO timestamp. Missing trailing fields are left empty.
func ParseCommitInfo(line string) (CommitInfo, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return CommitInfo{}, fmt.Errorf("empty commit log line")
	}

	fields := strings.SplitN(line, CommitFieldSeparator, 5)
	for len(fields) < 5 {
		fields = append(fields, "")
	}

	return CommitInfo{
		Hash:         strings.TrimSpace(fields[0]),
		Message:      fields[1],
		Author:       fields[2],
		RelativeTime: fields[3],
		ISOTimestamp: strings.TrimSpace(fields[4]),
	}, nil
}

// Format renders the commit the way ParseCommitInfo expects it.
func (c CommitInfo) Format() string {
	return strings.Join([]string{c.Hash, c.Message, c.Author, c.RelativeTime, c.ISOTimestamp}, CommitFieldSeparator)
}
