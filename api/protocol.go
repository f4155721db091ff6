package api

import "taskpad/domain"

const (
	// Plain JSON bodies are tiny; image routes carry base64 data URIs.
	defaultBodyLimit = 64 * 1024       // 64 KiB
	imageBodyLimit   = 8 * 1024 * 1024 // 8 MiB
)

type tasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

type addTaskResponse struct {
	Task  *domain.Task  `json:"task,omitempty"`
	Tasks []domain.Task `json:"tasks"`
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

// draftPayload carries partial form updates; absent fields stay untouched.
type draftPayload struct {
	Description *string              `json:"description"`
	Category    *string              `json:"category"`
	ImageURL    *string              `json:"imageUrl"`
	Status      *domain.TaskStatus   `json:"status"`
	Location    *domain.TaskLocation `json:"location"`
}

type descriptionPayload struct {
	Description string `json:"description"`
}

type imagePayload struct {
	ImageURL *string `json:"imageUrl"`
}

type categoryPayload struct {
	Category string `json:"category"`
}

type statusPayload struct {
	Status domain.TaskStatus `json:"status"`
}

type locationPayload struct {
	Location domain.TaskLocation `json:"location"`
}

type sharePayload struct {
	Email string `json:"email"`
}

type categoryNamePayload struct {
	Name string `json:"name"`
}
