package todo

// TodoStatus represents the status of a todo item.
type TodoStatus string

const (
	TodoStatusPending    TodoStatus = "pending"
	TodoStatusInProgress TodoStatus = "in_progress"
	TodoStatusCompleted  TodoStatus = "completed"
	TodoStatusCancelled  TodoStatus = "cancelled"
)

// Todo represents a single task item.
type Todo struct {
	Description string     `json:"description" mapstructure:"description"`
	Status      TodoStatus `json:"status" mapstructure:"status"`
}

// WriteTodosArgs is the argument object of write_todos.
type WriteTodosArgs struct {
	Todos []Todo `mapstructure:"todos"`
}

// Validate checks every todo's status and description.
func (a WriteTodosArgs) Validate() error {
	for i, todo := range a.Todos {
		switch todo.Status {
		case TodoStatusPending, TodoStatusInProgress, TodoStatusCompleted, TodoStatusCancelled:
		default:
			return &InvalidStatusError{Index: i, Status: todo.Status}
		}
		if todo.Description == "" {
			return &EmptyDescriptionError{Index: i}
		}
	}
	return nil
}

// ReadTodosResponse contains the list of current todos.
type ReadTodosResponse struct {
	Todos []Todo `json:"todos"`
}

// WriteTodosResponse contains the result of a write_todos call.
type WriteTodosResponse struct {
	Count int `json:"count"`
}
