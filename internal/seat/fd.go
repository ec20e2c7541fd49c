package seat

import "syscall"

// closeFd closes a receive-end fd the embedder handed us with nowhere
// left to forward it (an offer with no installed receive handler, or a
// receive request for a MIME type that is no longer valid). Plain
// close(2): nothing in the dependency stack wraps this more usefully
// than syscall does.
func closeFd(fd int) {
	_ = syscall.Close(fd)
}
