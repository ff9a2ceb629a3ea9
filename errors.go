package chromaview

import "errors"

// ErrClosed is returned by operations on a closed Renderer or Coordinator.
var ErrClosed = errors.New("chromaview: closed")
