package tui

import (
	"github.com/srmagura/blog/internal/types"
)

type docsLoadedMsg struct {
	docs []*types.DocumentInfo
}
