package config

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "orcamentos"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "ORCAMENTOS_DB_DSN"
	EnvDBHost = "ORCAMENTOS_DB_HOST"
	EnvDBUser = "ORCAMENTOS_DB_USER"
	EnvDBName = "ORCAMENTOS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
