package handler

import (
	"github.com/dtroode/taskmanager/internal/api/grpc/apiv1"
	"github.com/dtroode/taskmanager/internal/model"
)

func toProtoTasks(tasks []model.Task) []*apiv1.Task {
	out := make([]*apiv1.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, &apiv1.Task{
			Id:        t.ID,
			Task:      t.Text,
			Completed: t.Completed,
		})
	}
	return out
}

func toProtoRecord(record model.UserRecord) *apiv1.Record {
	return &apiv1.Record{
		FirstName: record.FirstName,
		LastName:  record.LastName,
		Tasks:     toProtoTasks(record.Tasks),
		Version:   record.Version,
	}
}
