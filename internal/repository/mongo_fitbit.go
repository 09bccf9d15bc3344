package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"lifesnaps-data/internal/domain"
)

// fitbit 集合的固定键
const (
	keyType = "type"
	keyID   = "id"
	keyData = "data"

	typeSleep = "sleep"

	keySleepStartTime   = keyData + ".startTime"
	keySleepDateOfSleep = keyData + ".dateOfSleep"
)

// levels.data / levels.shortData 中 dateTime 的存储格式
const levelTimeLayout = "2006-01-02T15:04:05.000"

// MongoFitbitRepo FitbitRepository 的 MongoDB 实现
type MongoFitbitRepo struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewMongoFitbitRepo 创建 fitbit 集合 Repository
func NewMongoFitbitRepo(coll *mongo.Collection, logger *zap.Logger) *MongoFitbitRepo {
	return &MongoFitbitRepo{coll: coll, logger: logger}
}

// 确保实现了接口
var _ FitbitRepository = (*MongoFitbitRepo)(nil)

// ParticipantIDs 返回集合中全部去重后的参与者 id
func (r *MongoFitbitRepo) ParticipantIDs(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, keyID, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct participant ids: %w", err)
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		switch id := v.(type) {
		case primitive.ObjectID:
			ids = append(ids, id.Hex())
		case string:
			ids = append(ids, id)
		default:
			ids = append(ids, fmt.Sprint(id))
		}
	}
	return ids, nil
}

// SleepLogs 取窗口内某参与者的全部 sleep 文档
// 管道：$match type+id -> $addFields 把时间字段转为 date -> 窗口 $match -> $sort
func (r *MongoFitbitRepo) SleepLogs(ctx context.Context, participantID string, window domain.Window, byDateOfSleep bool) ([]domain.SleepLog, error) {
	dateKey := keySleepStartTime
	if byDateOfSleep {
		dateKey = keySleepDateOfSleep
	}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{keyType: typeSleep, keyID: participantFilter(participantID)}}},
		dateConvertStage(keySleepStartTime, keySleepDateOfSleep),
		dateFilterStage(dateKey, "", window),
		bson.D{{Key: "$sort", Value: bson.M{dateKey: 1}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to query sleep logs: %w", err)
	}
	defer cur.Close(ctx)

	var logs []domain.SleepLog
	for cur.Next(ctx) {
		var doc rawSleepDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode sleep log: %w", err)
		}
		logs = append(logs, r.toSleepLog(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sleep logs: %w", err)
	}
	return logs, nil
}

// MetricDocuments 按 MetricSpec 取指标文档并扁平化 data 字段
func (r *MongoFitbitRepo) MetricDocuments(ctx context.Context, spec MetricSpec, participantID string, window domain.Window) ([]map[string]any, error) {
	startKey, endKey := "", ""
	if spec.StartKey != "" {
		startKey = keyData + "." + spec.StartKey
	}
	if spec.EndKey != "" {
		endKey = keyData + "." + spec.EndKey
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{keyType: spec.TypeTag, keyID: participantFilter(participantID)}}},
		dateConvertStage(startKey, endKey),
	}
	if startKey != "" {
		pipeline = append(pipeline, dateFilterStage(startKey, endKey, window))
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to query metric documents: %w", err)
	}
	defer cur.Close(ctx)

	var docs []map[string]any
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode metric document: %w", err)
		}
		data, ok := doc[keyData].(bson.M)
		if !ok {
			r.logger.Warn("Metric document missing data field", zap.String("type", spec.TypeTag))
			continue
		}
		flat := map[string]any{}
		flattenValue("", data, flat)
		docs = append(docs, flat)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate metric documents: %w", err)
	}
	return docs, nil
}

// participantFilter 参与者 id 按 ObjectId 十六进制解析，失败时按原样匹配
func participantFilter(id string) any {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

// dateConvertStage 把给定字段转为 Mongo date（空 key 跳过）
func dateConvertStage(keys ...string) bson.D {
	fields := bson.M{}
	for _, k := range keys {
		if k == "" {
			continue
		}
		fields[k] = bson.M{"$convert": bson.M{"input": "$" + k, "to": "date"}}
	}
	return bson.D{{Key: "$addFields", Value: fields}}
}

// dateFilterStage 构造窗口过滤的 $match 阶段
// endKey 为空时退化为 startKey；两端都缺省时返回空 $match
func dateFilterStage(startKey, endKey string, w domain.Window) bson.D {
	if endKey == "" {
		endKey = startKey
	}
	switch {
	case w.Start != nil && w.End != nil:
		return bson.D{{Key: "$match", Value: bson.M{"$and": bson.A{
			bson.M{startKey: bson.M{"$gte": *w.Start}},
			bson.M{endKey: bson.M{"$lte": *w.End}},
		}}}}
	case w.End != nil:
		return bson.D{{Key: "$match", Value: bson.M{endKey: bson.M{"$lte": *w.End}}}}
	case w.Start != nil:
		return bson.D{{Key: "$match", Value: bson.M{startKey: bson.M{"$gte": *w.Start}}}}
	default:
		return bson.D{{Key: "$match", Value: bson.M{}}}
	}
}

// rawSleepDoc sleep 文档的解码结构（时间字段已被管道转为 date）
type rawSleepDoc struct {
	Data rawSleepData `bson:"data"`
}

type rawSleepData struct {
	LogID               int64          `bson:"logId"`
	DateOfSleep         time.Time      `bson:"dateOfSleep"`
	StartTime           time.Time      `bson:"startTime"`
	EndTime             string         `bson:"endTime"`
	Duration            int64          `bson:"duration"`
	Efficiency          int            `bson:"efficiency"`
	MinutesToFallAsleep int            `bson:"minutesToFallAsleep"`
	MinutesAsleep       int            `bson:"minutesAsleep"`
	MinutesAwake        int            `bson:"minutesAwake"`
	MinutesAfterWakeup  int            `bson:"minutesAfterWakeup"`
	TimeInBed           int            `bson:"timeInBed"`
	MainSleep           bool           `bson:"mainSleep"`
	Type                string         `bson:"type"`
	InfoCode            int            `bson:"infoCode"`
	Levels              rawSleepLevels `bson:"levels"`
}

type rawSleepLevels struct {
	Summary   map[string]rawStageSummary `bson:"summary"`
	Data      []rawLevelEntry            `bson:"data"`
	ShortData []rawLevelEntry            `bson:"shortData"`
}

type rawStageSummary struct {
	Count               int `bson:"count"`
	Minutes             int `bson:"minutes"`
	ThirtyDayAvgMinutes int `bson:"thirtyDayAvgMinutes"`
}

type rawLevelEntry struct {
	DateTime string `bson:"dateTime"`
	Level    string `bson:"level"`
	Seconds  int    `bson:"seconds"`
}

// toSleepLog 把原始文档转为领域模型
// levels.data 的 dateTime 解析失败时该 log 视为畸形（阶段序列置空，由聚合器跳过并上报）
func (r *MongoFitbitRepo) toSleepLog(doc rawSleepDoc) domain.SleepLog {
	data := doc.Data
	out := domain.SleepLog{
		LogID:               data.LogID,
		DateOfSleep:         data.DateOfSleep.Format("2006-01-02"),
		StartTime:           data.StartTime,
		EndTime:             data.EndTime,
		Duration:            data.Duration,
		Efficiency:          data.Efficiency,
		MinutesToFallAsleep: data.MinutesToFallAsleep,
		MinutesAsleep:       data.MinutesAsleep,
		MinutesAwake:        data.MinutesAwake,
		MinutesAfterWakeup:  data.MinutesAfterWakeup,
		TimeInBed:           data.TimeInBed,
		MainSleep:           data.MainSleep,
		Type:                data.Type,
		InfoCode:            data.InfoCode,
	}

	if len(data.Levels.Summary) > 0 {
		out.LevelsSummary = map[string]domain.StageSummary{}
		for stage, s := range data.Levels.Summary {
			out.LevelsSummary[stage] = domain.StageSummary{
				Count:               s.Count,
				Minutes:             s.Minutes,
				ThirtyDayAvgMinutes: s.ThirtyDayAvgMinutes,
			}
		}
	}

	for _, entry := range data.Levels.Data {
		ts, err := parseLevelTime(entry.DateTime)
		if err != nil {
			r.logger.Warn("Invalid dateTime in sleep levels data",
				zap.Int64("log_id", data.LogID),
				zap.String("date_time", entry.DateTime),
			)
			out.StageEvents = nil
			break
		}
		out.StageEvents = append(out.StageEvents, domain.StageEvent{
			DateTime: ts,
			Level:    domain.Stage(entry.Level),
			Seconds:  entry.Seconds,
		})
	}
	for _, entry := range data.Levels.ShortData {
		ts, err := parseLevelTime(entry.DateTime)
		if err != nil {
			r.logger.Warn("Invalid dateTime in sleep short data",
				zap.Int64("log_id", data.LogID),
				zap.String("date_time", entry.DateTime),
			)
			continue
		}
		out.ShortWakeEvents = append(out.ShortWakeEvents, domain.ShortWakeEvent{
			DateTime: ts,
			Seconds:  entry.Seconds,
		})
	}
	return out
}

func parseLevelTime(s string) (time.Time, error) {
	t, err := time.Parse(levelTimeLayout, s)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04:05", s)
	}
	return t, err
}

// flattenValue 嵌套文档按点号展开，Mongo date 转为 time.Time
func flattenValue(prefix string, value any, out map[string]any) {
	switch v := value.(type) {
	case bson.M:
		for k, child := range v {
			flattenValue(joinKey(prefix, k), child, out)
		}
	case map[string]any:
		for k, child := range v {
			flattenValue(joinKey(prefix, k), child, out)
		}
	case bson.D:
		for _, e := range v {
			flattenValue(joinKey(prefix, e.Key), e.Value, out)
		}
	case primitive.DateTime:
		out[prefix] = v.Time().UTC()
	case primitive.A:
		out[prefix] = []any(v)
	default:
		out[prefix] = value
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
