package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// slotQuery - параметры GET /slots
type slotQuery struct {
	TutorID string `query:"tutor_id" json:"tutor_id" validate:"required"`
	Date    string `query:"date" json:"date" validate:"required,datetime=2006-01-02"`
}

// bookingForm - тело брони и прямой записи. Слот приходит либо строкой
// time_slot ("HH:MM - HH:MM", как в веб форме), либо парой start_time/end_time.
type bookingForm struct {
	TutorID    string `json:"tutor_id" form:"tutor_id" validate:"required"`
	ModuleCode string `json:"module_code" form:"module_code" validate:"required"`
	Date       string `json:"date" form:"date" validate:"required,datetime=2006-01-02"`
	TimeSlot   string `json:"time_slot" form:"time_slot" validate:"required_without=StartTime,omitempty,time_slot"`
	StartTime  string `json:"start_time" form:"start_time" validate:"required_without=TimeSlot,omitempty,datetime=15:04"`
	EndTime    string `json:"end_time" form:"end_time" validate:"required_with=StartTime,omitempty,datetime=15:04"`
	Notes      string `json:"notes" form:"notes" validate:"max=1000"`
}

func (f bookingForm) toRequest(studentID string) service.BookingRequest {
	start, end := f.StartTime, f.EndTime
	if f.TimeSlot != "" {
		// Формат уже проверен валидатором time_slot
		start, end, _ = model.ParseSlotLabel(f.TimeSlot)
	}

	return service.BookingRequest{
		StudentID:  studentID,
		TutorID:    strings.TrimSpace(f.TutorID),
		ModuleCode: strings.TrimSpace(f.ModuleCode),
		Date:       f.Date,
		StartTime:  start,
		EndTime:    end,
		Notes:      strings.TrimSpace(f.Notes),
	}
}

type feedbackForm struct {
	Rating      int    `json:"rating" form:"rating" validate:"required,min=1,max=5"`
	Feedback    string `json:"feedback" form:"feedback" validate:"max=2000"`
	WasHelpful  bool   `json:"was_helpful" form:"was_helpful"`
	Improvement string `json:"improvement" form:"improvement" validate:"max=2000"`
}

// customRules - собственные теги валидатора
var customRules = map[string]validator.Func{
	"time_slot": func(fl validator.FieldLevel) bool {
		_, _, err := model.ParseSlotLabel(fl.Field().String())
		return err == nil
	},
}

func newValidator() (*validator.Validate, error) {
	v := validator.New()

	// В ошибках - имена полей как в запросе, а не как в Go
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	if err := registerRules(v, customRules); err != nil {
		return nil, err
	}

	return v, nil
}

func registerRules(v *validator.Validate, rules map[string]validator.Func) error {
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %q validation: %w", tag, err)
		}
	}
	return nil
}

// bind разбирает тело (JSON или form) и валидирует его
func (h *Handlers) bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot parse request body")
	}
	return h.check(dst)
}

// check превращает ошибку валидатора в *service.ValidationError по первому полю
func (h *Handlers) check(v any) error {
	err := h.validate.Struct(v)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}

	fe := errs[0]
	return &service.ValidationError{Field: fe.Field(), Reason: reason(fe)}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without", "required_with":
		return "required"
	case "datetime":
		return fmt.Sprintf("expected format %s", fe.Param())
	case "time_slot":
		return `expected "HH:MM - HH:MM"`
	case "min", "max":
		return fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param())
	default:
		return "invalid value"
	}
}
