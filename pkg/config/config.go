package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App        AppConfig
	HTTP       HTTPConfig
	JWT        JWTConfig
	Backend    BackendConfig
	Query      QueryConfig
	Resilience ResilienceConfig
	Workers    WorkersConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig configuración de JWT. Secret vacío = endpoint sin autenticación.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// BackendConfig configuración del servicio SOAP de movimientos de préstamo.
type BackendConfig struct {
	URL            string // endpoint del WS movimientosPrestamo
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// QueryConfig política de consulta hacia el backend. Son parámetros del
// operador (ajustables por ambiente), no datos del request.
type QueryConfig struct {
	CantidadMovimientos int    // cantidad máxima de movimientos a pedir
	DireccionConsulta   string // dirección de recorrido (ej. "DESC")
	MontoInicial        int64  // filtro de monto desde
	MontoFinal          int64  // filtro de monto hasta
	RecordInicial       int    // record desde el cual pagina el backend
	TipoTransaccion     string // tipo de movimiento a filtrar
	NumDoc              string // número de documento (el backend exige el campo)
	MesesAtras          int    // meses hacia atrás para la ventana de fechas
}

// ResilienceConfig política de reintentos y circuit breaker hacia el backend.
type ResilienceConfig struct {
	MaxAttempts     int           // intentos totales (incluye el primero)
	RetryDelay      time.Duration // espera fija entre intentos
	BreakerWindow   int           // volumen mínimo de requests para evaluar el circuito
	BreakerRatio    float64       // proporción de fallas que abre el circuito
	BreakerCooldown time.Duration // tiempo en abierto antes de permitir una sonda
}

// WorkersConfig pool de workers para despachar llamadas salientes.
type WorkersConfig struct {
	PoolSize  int // workers concurrentes
	QueueSize int // tareas encoladas antes de bloquear
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, BACKEND_URL, QUERY_MESES_ATRAS, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// También intenta config.env
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "movimientos-prestamo-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "movimientos-prestamo-api"),
		},
		Backend: BackendConfig{
			URL:            getString(v, "BACKEND_URL", ""),
			ConnectTimeout: time.Duration(getInt(v, "BACKEND_CONNECT_TIMEOUT_SECONDS", 30)) * time.Second,
			ReadTimeout:    time.Duration(getInt(v, "BACKEND_READ_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Query: QueryConfig{
			CantidadMovimientos: getInt(v, "QUERY_CANTIDAD_MOVIMIENTOS", 10),
			DireccionConsulta:   getString(v, "QUERY_DIRECCION_CONSULTA", "DESC"),
			MontoInicial:        int64(getInt(v, "QUERY_MONTO_INICIAL", 0)),
			MontoFinal:          int64(getInt(v, "QUERY_MONTO_FINAL", 999999999)),
			RecordInicial:       getInt(v, "QUERY_RECORD_INICIAL", 0),
			TipoTransaccion:     getString(v, "QUERY_TIPO_TRANSACCION", "T"),
			NumDoc:              getString(v, "QUERY_NUM_DOC", "0"),
			MesesAtras:          getInt(v, "QUERY_MESES_ATRAS", 12),
		},
		Resilience: ResilienceConfig{
			MaxAttempts:     getInt(v, "RETRY_MAX_ATTEMPTS", 3),
			RetryDelay:      time.Duration(getInt(v, "RETRY_DELAY_MS", 500)) * time.Millisecond,
			BreakerWindow:   getInt(v, "BREAKER_REQUEST_VOLUME", 4),
			BreakerRatio:    getFloat(v, "BREAKER_FAILURE_RATIO", 0.5),
			BreakerCooldown: time.Duration(getInt(v, "BREAKER_COOLDOWN_MS", 1000)) * time.Millisecond,
		},
		Workers: WorkersConfig{
			PoolSize:  getInt(v, "WORKERS_POOL_SIZE", 8),
			QueueSize: getInt(v, "WORKERS_QUEUE_SIZE", 64),
		},
	}

	if cfg.Backend.URL == "" && cfg.App.Env != "development" {
		return nil, fmt.Errorf("config: BACKEND_URL es obligatorio fuera de development")
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			f, _ := strconv.ParseFloat(v.GetString(key), 64)
			return f
		default:
			return v.GetFloat64(key)
		}
	}
	return def
}
