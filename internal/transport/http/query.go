package http

import (
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	apierrors "github.com/KeremDpdo/research-publication-dashboard/internal/errors"
	"github.com/KeremDpdo/research-publication-dashboard/internal/services"
	"github.com/KeremDpdo/research-publication-dashboard/internal/stats"
	"github.com/KeremDpdo/research-publication-dashboard/pkg/contracts/domain"
)

// Query parameters accepted by the record and report endpoints. Each
// selector parameter may repeat or carry a comma separated list.
const (
	ParamFaculty           = "faculty"
	ParamDepartment        = "department"
	ParamTitle             = "title"
	ParamExcludeFaculty    = "exclude_faculty"
	ParamExcludeDepartment = "exclude_department"
	ParamExcludeTitle      = "exclude_title"
	ParamTopN              = "top_n"
)

// ReportQuery is the validated form of the selector and ranking parameters
type ReportQuery struct {
	Faculties          []string `query:"faculty" validate:"omitempty,max=100,dive,required,max=200"`
	Departments        []string `query:"department" validate:"omitempty,max=200,dive,required,max=200"`
	Titles             []string `query:"title" validate:"omitempty,dive,title_label"`
	ExcludeFaculties   []string `query:"exclude_faculty" validate:"omitempty,max=100,dive,required,max=200"`
	ExcludeDepartments []string `query:"exclude_department" validate:"omitempty,max=200,dive,required,max=200"`
	ExcludeTitles      []string `query:"exclude_title" validate:"omitempty,dive,title_label"`
	TopN               int      `query:"top_n" validate:"gte=0,lte=50"`
}

// Selector converts the query into a record selector
func (q ReportQuery) Selector() stats.Selector {
	return stats.Selector{
		IncludeFaculties:   q.Faculties,
		IncludeDepartments: q.Departments,
		IncludeTitles:      q.Titles,
		ExcludeFaculties:   q.ExcludeFaculties,
		ExcludeDepartments: q.ExcludeDepartments,
		ExcludeTitles:      q.ExcludeTitles,
	}
}

// ReportRequest converts the query into a service report request
func (q ReportQuery) ReportRequest() services.ReportRequest {
	return services.ReportRequest{Selector: q.Selector(), TopN: q.TopN}
}

// QueryValidator parses and validates query parameters with struct tags
type QueryValidator struct {
	validate *validator.Validate
}

// NewQueryValidator creates a validator that reports fields by their query
// parameter names
func NewQueryValidator() *QueryValidator {
	v := validator.New()
	_ = v.RegisterValidation("title_label", isTitleLabel)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &QueryValidator{validate: v}
}

// ParseReportQuery reads and validates the selector and top_n parameters
func (qv *QueryValidator) ParseReportQuery(r *http.Request) (ReportQuery, error) {
	values := r.URL.Query()
	q := ReportQuery{
		Faculties:          listParam(values, ParamFaculty),
		Departments:        listParam(values, ParamDepartment),
		Titles:             listParam(values, ParamTitle),
		ExcludeFaculties:   listParam(values, ParamExcludeFaculty),
		ExcludeDepartments: listParam(values, ParamExcludeDepartment),
		ExcludeTitles:      listParam(values, ParamExcludeTitle),
	}

	if raw := strings.TrimSpace(values.Get(ParamTopN)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, apierrors.NewValidationErrors([]apierrors.ValidationError{
				{Field: ParamTopN, Message: "must be an integer"},
			})
		}
		q.TopN = n
	}

	if err := qv.validate.Struct(q); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return q, err
		}
		out := make([]apierrors.ValidationError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, apierrors.ValidationError{
				Field:   fe.Field(),
				Message: validationMessage(fe),
			})
		}
		return q, apierrors.NewValidationErrors(out)
	}
	return q, nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "max":
		return "exceeds the maximum length of " + fe.Param()
	case "required":
		return "must not be empty"
	case "title_label":
		return "unknown title: " + fe.Value().(string)
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

// listParam collects a repeated or comma separated parameter. Blank items are
// kept so validation can reject them.
func listParam(values url.Values, key string) []string {
	var out []string
	for _, v := range values[key] {
		for _, item := range strings.Split(v, ",") {
			out = append(out, strings.TrimSpace(item))
		}
	}
	return out
}

var titleLabels = func() map[string]struct{} {
	m := make(map[string]struct{}, len(domain.Titles))
	lower := cases.Lower(language.Turkish)
	for _, t := range domain.Titles {
		m[lower.String(t.String())] = struct{}{}
	}
	return m
}()

func isTitleLabel(fl validator.FieldLevel) bool {
	_, ok := titleLabels[cases.Lower(language.Turkish).String(fl.Field().String())]
	return ok
}
