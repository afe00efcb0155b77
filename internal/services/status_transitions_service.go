package services

import "eventhub/internal/models"

// Allowed task status transitions; completed and cancelled are terminal.
var TaskTransitions = map[string]map[string]bool{
	string(models.TaskPending):    {"in_progress": true, "waiting": true, "cancelled": true, "completed": true},
	string(models.TaskInProgress): {"waiting": true, "completed": true, "cancelled": true, "pending": true},
	string(models.TaskWaiting):    {"in_progress": true, "pending": true, "cancelled": true, "completed": true},
	string(models.TaskCompleted):  {},
	string(models.TaskCancelled):  {},
}

func canTransition(current, to string, table map[string]map[string]bool) bool {
	if current == "" || current == to {
		return true
	}
	nexts, ok := table[current]
	if !ok {
		return false
	}
	return nexts[to]
}

func CanTransitionTask(from, to models.TaskStatus) bool {
	return to.Valid() && canTransition(string(from), string(to), TaskTransitions)
}
