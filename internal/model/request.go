package model

type LoginRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
	Code     string `json:"code"`
	CodeKey  string `json:"code_key"`
}

type CreateUserRequest struct {
	Account  string   `json:"account"`
	Nickname string   `json:"nickname"`
	Password string   `json:"password"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Avatar   string   `json:"avatar"`
	RoleIDs  []string `json:"role_ids"`
}

type UpdateUserRequest struct {
	Nickname string   `json:"nickname"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Avatar   string   `json:"avatar"`
	RoleIDs  []string `json:"role_ids"`
}

type CreateRoleRequest struct {
	Name        string   `json:"name"`
	RoleKey     string   `json:"role_key"`
	Description string   `json:"description"`
	RouteIDs    []string `json:"route_ids"`
}

type UpdateRoleRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	RouteIDs    []string `json:"route_ids"`
}

type CreateRouteRequest struct {
	ParentID  string         `json:"parent_id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Path      string         `json:"path"`
	Icon      string         `json:"icon"`
	Component string         `json:"component"`
	Redirect  string         `json:"redirect"`
	Meta      map[string]any `json:"meta"`
	Sort      int            `json:"sort"`
}

type CreateNoticeRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type"`
	Sort    int    `json:"sort"`
}

type CreateDictTypeRequest struct {
	Name    string `json:"name"`
	TypeKey string `json:"type_key"`
}

type CreateDictItemRequest struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Sort    int    `json:"sort"`
	Enabled *bool  `json:"enabled"`
}

type CreateEmailTemplateRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ListQuery carries the caller-supplied sort direction shared by most list
// endpoints. Direction ASC or DESC (case-insensitive) orders by
// (sort, created_at) in that direction; anything else falls back to
// sort DESC, created_at DESC.
type ListQuery struct {
	Sort  string
	Page  int
	Limit int
}

type ChunkedUploadInitRequest struct {
	FileName  string `json:"file_name"`
	FileSize  int64  `json:"file_size"`
	ChunkSize int64  `json:"chunk_size"`
}

type ChunkedUploadInitResponse struct {
	UploadID    string `json:"upload_id"`
	TotalChunks int    `json:"total_chunks"`
	ChunkSize   int64  `json:"chunk_size"`
}

type ChunkedUploadChunkResponse struct {
	UploadID       string `json:"upload_id"`
	ChunkIndex     int    `json:"chunk_index"`
	ReceivedChunks int    `json:"received_chunks"`
	TotalChunks    int    `json:"total_chunks"`
	Completed      bool   `json:"completed"`
}

type UploadedFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}
