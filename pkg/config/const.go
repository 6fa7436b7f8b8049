package config

// EnvPrefix is the envconfig prefix shared by every AUDITRA_* variable.
const EnvPrefix = "AUDITRA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "AUDITRA_DB_DSN"
	EnvDBHost = "AUDITRA_DB_HOST"
	EnvDBUser = "AUDITRA_DB_USER"
	EnvDBName = "AUDITRA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
