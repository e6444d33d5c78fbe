package handler

import (
	"context"
	"reflect"
	"strings"
	"time"

	"family-dues-go/internal/domain/access"
	actionlogdomain "family-dues-go/internal/domain/actionlog"
	authdomain "family-dues-go/internal/domain/auth"
	"family-dues-go/internal/domain/billing"
	cuotadomain "family-dues-go/internal/domain/cuota"
	familydomain "family-dues-go/internal/domain/family"
	folderdomain "family-dues-go/internal/domain/folder"
	paymentdomain "family-dues-go/internal/domain/payment"
	persondomain "family-dues-go/internal/domain/person"
	ramadomain "family-dues-go/internal/domain/rama"
	statsdomain "family-dues-go/internal/domain/stats"
	transactiondomain "family-dues-go/internal/domain/transaction"
	userdomain "family-dues-go/internal/domain/user"
	"family-dues-go/internal/scheduler"
	"family-dues-go/pkg/logger"
	"github.com/go-playground/validator/v10"
)

type AuthService interface {
	Login(ctx context.Context, credentials authdomain.Credentials) (*authdomain.LoginResult, error)
	Me(ctx context.Context, session *access.SessionUser) (*userdomain.User, error)
}

type RamaService interface {
	List(ctx context.Context) ([]ramadomain.Rama, error)
	Get(ctx context.Context, id string) (*ramadomain.Rama, error)
	Create(ctx context.Context, name string) (*ramadomain.Rama, error)
	Rename(ctx context.Context, id, name string) (*ramadomain.Rama, error)
	Delete(ctx context.Context, id string) error
}

type FamilyService interface {
	List(ctx context.Context, session *access.SessionUser, base access.Filter) ([]familydomain.Family, error)
	Get(ctx context.Context, session *access.SessionUser, id string) (*familydomain.Family, error)
	Create(ctx context.Context, input familydomain.CreateInput, actor access.Actor) (*familydomain.Family, error)
	Update(ctx context.Context, session *access.SessionUser, id string, input familydomain.UpdateInput) (*familydomain.Family, error)
	Delete(ctx context.Context, id string, actor access.Actor) error
	GetBalance(ctx context.Context, id string) (*familydomain.Balance, error)
	GetBalanceByFamily(ctx context.Context, familyID string) (*familydomain.Balance, error)
	EditBalance(ctx context.Context, id string, input familydomain.BalanceInput, actor access.Actor) (*familydomain.Balance, error)
}

type UserService interface {
	List(ctx context.Context, session *access.SessionUser, base access.Filter) ([]userdomain.User, error)
	Get(ctx context.Context, session *access.SessionUser, id string) (*userdomain.User, error)
	Create(ctx context.Context, input userdomain.CreateInput, actor access.Actor) (*userdomain.User, error)
	Update(ctx context.Context, session *access.SessionUser, id string, input userdomain.UpdateInput) (*userdomain.User, error)
	Delete(ctx context.Context, session *access.SessionUser, id string) error
}

type PersonService interface {
	List(ctx context.Context, session *access.SessionUser, base access.Filter) ([]persondomain.Person, error)
	Get(ctx context.Context, session *access.SessionUser, id string) (*persondomain.Person, error)
	Create(ctx context.Context, input persondomain.Input) (*persondomain.Person, error)
	Update(ctx context.Context, session *access.SessionUser, id string, input persondomain.Input) (*persondomain.Person, error)
	Delete(ctx context.Context, session *access.SessionUser, id string) error
}

type CuotaService interface {
	List(ctx context.Context) ([]cuotadomain.Cuota, error)
	Get(ctx context.Context, id string) (*cuotadomain.Cuota, error)
	Active(ctx context.Context) (*cuotadomain.Cuota, error)
	Create(ctx context.Context, input cuotadomain.Input, actor access.Actor) (*cuotadomain.Cuota, error)
	Update(ctx context.Context, id string, input cuotadomain.Input) (*cuotadomain.Cuota, error)
	Activate(ctx context.Context, id string, actor access.Actor) (*cuotadomain.Cuota, error)
	Delete(ctx context.Context, id string) error
	ListOverrides(ctx context.Context) ([]cuotadomain.SiblingOverride, error)
	GetOverride(ctx context.Context, id string) (*cuotadomain.SiblingOverride, error)
	CreateOverride(ctx context.Context, input cuotadomain.OverrideInput) (*cuotadomain.SiblingOverride, error)
	UpdateOverride(ctx context.Context, id string, input cuotadomain.OverrideInput) (*cuotadomain.SiblingOverride, error)
	DeleteOverride(ctx context.Context, id string) error
}

type TransactionService interface {
	Create(ctx context.Context, input transactiondomain.CreateInput, actor access.Actor) (*transactiondomain.Transaction, error)
	Get(ctx context.Context, id string) (*transactiondomain.Transaction, error)
	List(ctx context.Context, filter transactiondomain.ListFilter) ([]transactiondomain.Transaction, error)
}

type PaymentService interface {
	Create(ctx context.Context, input paymentdomain.CreateInput, actor access.Actor) (*paymentdomain.Payment, error)
	Get(ctx context.Context, id string) (*paymentdomain.Payment, error)
	List(ctx context.Context, filter paymentdomain.ListFilter) ([]paymentdomain.Payment, error)
}

type ActionLogService interface {
	CreateIfAbsentByKey(ctx context.Context, input actionlogdomain.CreateInput, actor access.Actor) (*actionlogdomain.ActionLog, error)
	Get(ctx context.Context, id string) (*actionlogdomain.ActionLog, error)
	List(ctx context.Context, filter actionlogdomain.ListFilter) (*actionlogdomain.Page, error)
}

type FolderService interface {
	List(ctx context.Context, session *access.SessionUser) ([]folderdomain.Folder, error)
	Get(ctx context.Context, session *access.SessionUser, id string) (*folderdomain.Folder, error)
	Create(ctx context.Context, session *access.SessionUser, input folderdomain.CreateInput) (*folderdomain.Folder, error)
	Upload(ctx context.Context, session *access.SessionUser, folderID string, upload folderdomain.Upload, actor access.Actor) (*folderdomain.File, error)
	DeleteFile(ctx context.Context, folderID, fileID string) error
	Delete(ctx context.Context, id string) error
}

type StatsService interface {
	Cobrabilidad(ctx context.Context, month, year int) ([]statsdomain.BranchRate, error)
}

// MonthlyJob controls the monthly balance update trigger.
type MonthlyJob interface {
	Start() scheduler.Status
	Stop() (scheduler.Status, context.Context)
	Status() scheduler.Status
	TriggerManually(ctx context.Context, actor access.Actor) (billing.RunResult, error)
}

type Services struct {
	Auth         AuthService
	Ramas        RamaService
	Families     FamilyService
	Users        UserService
	Persons      PersonService
	Cuotas       CuotaService
	Transactions TransactionService
	Payments     PaymentService
	ActionLogs   ActionLogService
	Folders      FolderService
	Stats        StatsService
	Monthly      MonthlyJob
}

type Handlers struct {
	Services
	loc      *time.Location
	log      logger.Logger
	validate *validator.Validate
}

func New(services Services, loc *time.Location, log logger.Logger) *Handlers {
	if loc == nil {
		loc = time.UTC
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	return &Handlers{
		Services: services,
		loc:      loc,
		log:      log,
		validate: validate,
	}
}
