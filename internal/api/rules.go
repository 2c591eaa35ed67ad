package api

import (
	"regexp"

	"github.com/isdelr/taskboard-be/internal/models"
	"github.com/isdelr/taskboard-be/internal/services"
	"github.com/isdelr/taskboard-be/internal/validation"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func loginRules() *validation.Validator {
	return validation.New(
		validation.Body("username").NotEmpty().IsString().Length(3, 20).
			Matches(usernamePattern).WithMessage("username may only contain letters, digits and underscores"),
		validation.Body("password").NotEmpty().IsString().Length(6, 50),
	)
}

func verifyRules() *validation.Validator {
	return validation.New(
		validation.Body("token").Optional().IsString(),
	)
}

func createUserRules() *validation.Validator {
	return validation.New(
		validation.Body("username").NotEmpty().IsString().Length(3, 20).
			Matches(usernamePattern).WithMessage("username may only contain letters, digits and underscores"),
		validation.Body("password").NotEmpty().IsString().Length(6, 50).MaxBytes(services.MaxPasswordBytes),
		validation.Body("role").Optional().IsIn(string(models.RoleAdmin), string(models.RoleUser)),
	)
}

func idRule() *validation.Rule {
	return validation.Path("id").IsIntMin(1).WithMessage("id must be a positive integer")
}

func listTasksRules() *validation.Validator {
	return validation.New(
		validation.Query("page").Optional().IsInt().Min(1),
		validation.Query("limit").Optional().IsInt().Min(1).Max(100),
	)
}

func taskIDRules() *validation.Validator {
	return validation.New(idRule())
}

func taskFieldRules(create bool) []*validation.Rule {
	title := validation.Body("title")
	if !create {
		title.Optional()
	}
	return []*validation.Rule{
		title.NotEmpty().WithMessage("title is required").IsString(),
		validation.Body("type").Optional().IsIn(models.TaskTypes...),
		validation.Body("status").Optional().IsIn(models.TaskUnfinished, models.TaskFinished),
		validation.Body("content").Optional().IsArray(),
		validation.Body("chips").Optional().IsArray(),
	}
}

func createTaskRules() *validation.Validator {
	return validation.New(taskFieldRules(true)...)
}

func updateTaskRules() *validation.Validator {
	return validation.New(append([]*validation.Rule{idRule()}, taskFieldRules(false)...)...)
}

func milestoneIDRules() *validation.Validator {
	return validation.New(idRule())
}

func milestoneFieldRules(create bool) []*validation.Rule {
	title := validation.Body("title")
	if !create {
		title.Optional()
	}
	return []*validation.Rule{
		title.NotEmpty().WithMessage("title is required").IsString(),
		validation.Body("description").Optional().IsString(),
		validation.Body("mark").Optional().IsString(),
		validation.Body("tasksId").Optional().IsArray(),
		validation.Body("startAt").Optional().IsISO8601(),
		validation.Body("targetAt").Optional().IsISO8601(),
	}
}

func createMilestoneRules() *validation.Validator {
	return validation.New(milestoneFieldRules(true)...)
}

func updateMilestoneRules() *validation.Validator {
	return validation.New(append([]*validation.Rule{idRule()}, milestoneFieldRules(false)...)...)
}
