package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Pratik980/GharNirman-sub000/config"
	"github.com/Pratik980/GharNirman-sub000/internal/application"
	"github.com/Pratik980/GharNirman-sub000/internal/realtime"
	"github.com/Pratik980/GharNirman-sub000/pkg/helpers"
)

// App-level container sharing constructed singletons across packages.
// The router auto-wires feature modules from these.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	identityVerifier *helpers.IdentityVerifier
	rabbitPub        *helpers.RabbitPublisher
	pusherTransport  *realtime.PusherTransport
	pushRouter       *realtime.Router
	dispatcher       *application.Dispatcher
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger  { return logger }
func SetPGPool(p *pgxpool.Pool)  { pgPool = p }
func GetPGPool() *pgxpool.Pool   { return pgPool }
func SetRedis(r *redis.Client)   { redisClient = r }
func GetRedis() *redis.Client    { return redisClient }

func SetIdentity(v *helpers.IdentityVerifier) { identityVerifier = v }
func GetIdentity() *helpers.IdentityVerifier {
	if identityVerifier != nil {
		return identityVerifier
	}
	return helpers.NewIdentityVerifier("devidentitysecret")
}

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetPusher(t *realtime.PusherTransport)   { pusherTransport = t }
func GetPusher() *realtime.PusherTransport    { return pusherTransport }
func SetPushRouter(r *realtime.Router)        { pushRouter = r }
func GetPushRouter() *realtime.Router         { return pushRouter }
func SetDispatcher(d *application.Dispatcher) { dispatcher = d }
func GetDispatcher() *application.Dispatcher  { return dispatcher }
