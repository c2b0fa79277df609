package class

import (
	"context"

	"gymdesk/internal/conflict"
)

type Repository interface {
	CreateClass(ctx context.Context, params ClassParams, check conflict.Check) (*GroupClass, error)
	UpdateClass(ctx context.Context, id int, params ClassParams, check conflict.Check) (*GroupClass, error)
	DeleteClass(ctx context.Context, id int) error
	GetClassByID(ctx context.Context, id int) (*GroupClass, error)
	GetAllClasses(ctx context.Context) ([]ClassWithDetails, error)
	GetClassesForMember(ctx context.Context, memberID int) ([]ClassWithDetails, error)
	TryEnroll(ctx context.Context, classID, memberID int) (*Enrollment, error)
	Withdraw(ctx context.Context, classID, memberID int) error
	CountEnrollments(ctx context.Context, classID int) (int, error)
}
