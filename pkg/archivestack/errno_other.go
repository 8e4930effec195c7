//go:build !unix

package archivestack

import "os"

func errnoOf(err error) int { return -1 }

func ownerOf(info os.FileInfo) (uid, gid int, uname, gname string, ok bool) {
	return 0, 0, "", "", false
}
