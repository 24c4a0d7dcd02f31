package tasksrepobridge

// Task is the wire shape of a task.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *string    `json:"dueDate"`
	AssignedTo  string     `json:"assignedTo"`
	Documents   []Document `json:"documents"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

// Document is the wire shape of an attachment. The storage locator is not
// exposed; clients download by id.
type Document struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	Size       int64  `json:"size"`
	MimeType   string `json:"mimetype"`
	UploadedAt string `json:"uploadedAt"`
}

// UpdatedTask is returned by update. DroppedDocuments lists attachments
// pushed out by the three document cap.
type UpdatedTask struct {
	Task
	DroppedDocuments []Document `json:"droppedDocuments"`
}

// SignedURL is returned for downloads from a backend that hands out links.
type SignedURL struct {
	URL string `json:"url"`
}

// TaskInput carries the writable task fields from either a JSON body or
// multipart form values. A nil field was not sent.
type TaskInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
	AssignedTo  *string `json:"assignedTo"`
}
