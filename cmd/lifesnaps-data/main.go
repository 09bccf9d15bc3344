package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"lifesnaps-data/internal/config"
	"lifesnaps-data/internal/domain"
	"lifesnaps-data/internal/export"
	"lifesnaps-data/internal/logger"
	"lifesnaps-data/internal/repository"
	"lifesnaps-data/internal/service"
)

func main() {
	var (
		participant      string
		metric           string
		start            string
		end              string
		out              string
		format           string
		listParticipants bool
		noShortWake      bool
	)
	flag.StringVar(&participant, "participant", "", "participant id (hex ObjectId)")
	flag.StringVar(&metric, "metric", "", "metric name, or sleep-stages / sleep-summary (see -list-metrics)")
	flag.StringVar(&start, "start", "", "window start date (YYYY-MM-DD or RFC3339, optional)")
	flag.StringVar(&end, "end", "", "window end date (optional)")
	flag.StringVar(&out, "out", "", "output file path; stdout when empty (csv only)")
	flag.StringVar(&format, "format", "csv", "output format: csv or xlsx")
	flag.BoolVar(&listParticipants, "list-participants", false, "print known participant ids and exit")
	flag.BoolVar(&noShortWake, "no-short-wake", false, "do not overlay short wake interruptions on sleep stages")
	listMetrics := flag.Bool("list-metrics", false, "print supported metric names and exit")
	flag.Parse()

	if *listMetrics {
		fmt.Println("sleep-stages")
		fmt.Println("sleep-summary")
		for _, name := range service.Metrics() {
			fmt.Println(name)
		}
		return
	}

	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "lifesnaps-data")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)

	var repo repository.FitbitRepository = repository.NewMongoFitbitRepo(coll, log)
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		repo = repository.NewParticipantCache(repo, redisClient, cfg.Redis.ParticipantTTL, log)
	}
	svc := service.NewLoaderService(repo, log)

	if listParticipants {
		ids, err := svc.ParticipantIDs(ctx)
		if err != nil {
			log.Fatal("Failed to list participants", zap.Error(err))
		}
		fmt.Println(strings.Join(ids, "\n"))
		return
	}

	if participant == "" || metric == "" {
		fmt.Fprintln(os.Stderr, "both -participant and -metric are required")
		flag.Usage()
		os.Exit(2)
	}

	window, err := service.ParseWindow(start, end)
	if err != nil {
		log.Fatal("Invalid window", zap.Error(err))
	}

	table, err := loadTable(ctx, svc, metric, participant, window, !noShortWake)
	if err != nil {
		log.Fatal("Failed to load metric",
			zap.String("metric", metric),
			zap.String("participant_id", participant),
			zap.Error(err),
		)
	}

	if err := writeTable(table, out, format, metric); err != nil {
		log.Fatal("Failed to write output", zap.Error(err))
	}
	log.Info("Done",
		zap.String("metric", metric),
		zap.Int("row_count", len(table.Rows)),
		zap.String("out", out),
	)
}

// loadTable 睡眠两个视图走合并引擎，其余指标走通用加载路径
func loadTable(ctx context.Context, svc *service.LoaderService, metric, participant string, window domain.Window, includeShortWake bool) (*domain.Table, error) {
	switch metric {
	case "sleep-stages":
		result, err := svc.LoadSleepStageSequence(ctx, participant, window, includeShortWake)
		if err != nil {
			return nil, err
		}
		return service.TableFromIntervals(result.Intervals), nil
	case "sleep-summary":
		result, err := svc.LoadSleepSummary(ctx, participant, window)
		if err != nil {
			return nil, err
		}
		return service.TableFromSummaries(result.Rows), nil
	default:
		return svc.LoadMetric(ctx, metric, participant, window)
	}
}

func writeTable(table *domain.Table, out, format, metric string) error {
	switch format {
	case "xlsx":
		if out == "" {
			return fmt.Errorf("-out is required for xlsx output")
		}
		return export.WriteXLSX(out, metric, table)
	case "csv":
		if out == "" {
			return export.WriteCSV(os.Stdout, table)
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		return export.WriteCSV(f, table)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
