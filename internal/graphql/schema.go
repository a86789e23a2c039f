package graphql

import (
	"errors"
	"fmt"

	gql "github.com/graphql-go/graphql"

	"github.com/and161185/wzs-web/internal/auth"
	"github.com/and161185/wzs-web/internal/db"
	"github.com/and161185/wzs-web/internal/notify"
)

// ErrMailDisabled is returned by the notify mutation when no Sender is configured.
var ErrMailDisabled = errors.New("mail is not configured")

// Deps are the ports the service schema resolves against. Either may be nil.
type Deps struct {
	DB     db.DB
	Mailer notify.Sender
}

// NewSchema builds the service schema:
//
//	query    { health: String!, me: String }
//	mutation { notify(subject: String!, text: String!, to: [String!]): Boolean! }
func NewSchema(deps Deps) (gql.Schema, error) {
	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"health": &gql.Field{
				Type:        gql.NewNonNull(gql.String),
				Description: "Liveness, including a database round trip when one is configured.",
				Resolve: func(p gql.ResolveParams) (any, error) {
					if deps.DB == nil {
						return "ok (no database)", nil
					}
					row, err := deps.DB.FetchOne(p.Context, "SELECT 1 AS ok")
					if err != nil {
						return nil, err
					}
					if row == nil {
						return nil, errors.New("health probe returned no row")
					}
					ok, err := row.Bool("ok")
					if err != nil {
						return nil, err
					}
					if !ok {
						return nil, errors.New("health probe returned false")
					}
					return "ok", nil
				},
			},
			"me": &gql.Field{
				Type:        gql.String,
				Description: "Subject of the authenticated caller, null when anonymous.",
				Resolve: func(p gql.ResolveParams) (any, error) {
					if pr, ok := auth.PrincipalFromContext(p.Context); ok {
						return pr.Subject, nil
					}
					return nil, nil
				},
			},
		},
	})

	mutation := gql.NewObject(gql.ObjectConfig{
		Name: "Mutation",
		Fields: gql.Fields{
			"notify": &gql.Field{
				Type:        gql.NewNonNull(gql.Boolean),
				Description: "Sends a plain-text email; requires authentication.",
				Args: gql.FieldConfigArgument{
					"subject": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"text":    &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
					"to":      &gql.ArgumentConfig{Type: gql.NewList(gql.NewNonNull(gql.String))},
				},
				Resolve: func(p gql.ResolveParams) (any, error) {
					if _, err := auth.Require(p.Context); err != nil {
						return nil, err
					}
					if deps.Mailer == nil {
						return nil, ErrMailDisabled
					}
					subject, _ := p.Args["subject"].(string)
					text, _ := p.Args["text"].(string)
					var to []string
					if list, ok := p.Args["to"].([]any); ok {
						for _, v := range list {
							if s, ok := v.(string); ok {
								to = append(to, s)
							}
						}
					}
					if err := deps.Mailer.Send(p.Context, notify.Email{Subject: subject, Body: notify.Text(text), To: to}); err != nil {
						return nil, fmt.Errorf("send: %w", err)
					}
					return true, nil
				},
			},
		},
	})

	return gql.NewSchema(gql.SchemaConfig{Query: query, Mutation: mutation})
}
