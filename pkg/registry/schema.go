// pkg/registry/schema.go
package registry

// ActivityRegistry describes the job workers a process model may reference.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated,omitempty"`
	Activities  []Activity `json:"activities"`
}

type Activity struct {
	ID          string      `json:"id"`
	DisplayName string      `json:"displayName"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	TaskType    string      `json:"taskType"`
	InputSchema interface{} `json:"inputSchema,omitempty"`
	Outputs     []string    `json:"outputs"`
	ErrorCodes  []string    `json:"errorCodes"`
	Timeout     string      `json:"timeout"`
	Retries     int         `json:"retries"`
	Tags        []string    `json:"tags,omitempty"`
}
