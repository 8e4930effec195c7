//go:build unix

package archivestack

import (
	"errors"
	"os"
	"os/user"
	"strconv"
	"syscall"
)

func errnoOf(err error) int {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	return -1
}

// ownerOf extracts uid/gid/uname/gname from a *syscall.Stat_t exposed via
// FileInfo.Sys(), the shape afero's OsFs and MemMapFs both return on unix.
// The teacher's FileInfo handling never fills this in; spec.md §4.4 asks
// for it explicitly.
func ownerOf(info os.FileInfo) (uid, gid int, uname, gname string, ok bool) {
	st, isStat := info.Sys().(*syscall.Stat_t)
	if !isStat {
		return 0, 0, "", "", false
	}
	uid, gid = int(st.Uid), int(st.Gid)
	if u, err := user.LookupId(strconv.Itoa(uid)); err == nil {
		uname = u.Username
	}
	if g, err := user.LookupGroupId(strconv.Itoa(gid)); err == nil {
		gname = g.Name
	}
	return uid, gid, uname, gname, true
}
