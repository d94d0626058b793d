package files

import "time"

// Item types
const (
	TypeFile   = "file"
	TypeFolder = "folder"
)

// FileItem is a folder or a file of the public area
type FileItem struct {
	Name         string     `json:"name"`
	Path         string     `json:"path"`
	Type         string     `json:"type"`
	Size         int64      `json:"size,omitempty"`
	LastModified *time.Time `json:"last_modified,omitempty"`
	MimeType     string     `json:"mime_type,omitempty"`
	DownloadURL  string     `json:"download_url,omitempty"`
	PreviewURL   string     `json:"preview_url,omitempty"`
}

// FolderContents is the listing of one folder
type FolderContents struct {
	CurrentPath  string     `json:"current_path"`
	ParentPath   string     `json:"parent_path,omitempty"`
	Folders      []FileItem `json:"folders"`
	Files        []FileItem `json:"files"`
	TotalFiles   int        `json:"total_files"`
	TotalFolders int        `json:"total_folders"`
}

// BrowseQuery is bound from GET /public-files/browse
type BrowseQuery struct {
	Path string `form:"path"`
}

// SearchQuery is bound from GET /public-files/search
type SearchQuery struct {
	Q string `form:"q" binding:"required,min=1,max=200"`
}
