package router

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// ServeLocalFiles mounts the public folder of a local object store at
// mount/publicRoot so its download links resolve. Only GET and HEAD are
// routed, directory listings are off and folders outside publicRoot are
// never reachable.
func ServeLocalFiles(engine *gin.Engine, mount, storageDir, publicRoot string) {
	publicRoot = strings.Trim(publicRoot, "/")
	dir := filepath.Join(storageDir, filepath.FromSlash(publicRoot))
	engine.StaticFS(path.Join("/", mount, publicRoot), gin.Dir(dir, false))
}
