package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nrad-K/go-standings/internal/constants"
	"github.com/nrad-K/go-standings/internal/domain/model"
	"github.com/nrad-K/go-standings/internal/domain/repository"
	"github.com/nrad-K/go-standings/internal/infra"
	"github.com/nrad-K/go-standings/internal/logger"
	"golang.org/x/sync/errgroup"
)

// LeagueReportArgsは、レポート出力ユースケースを構築するための引数を保持します。
//
// フィールド:
//
//	InputPath   : 座標を含むリーグ定義ファイル
//	ResultsPath : standingsの出力ファイル
//	DataDir     : リーグごとのフォルダを作成するディレクトリ
//	Concurrency : 天気取得の並列数
//	Source      : リーグ定義の読み込み
//	Store       : 順位表の読み込み
//	Weather     : 天気の取得
//	Exporters   : スプレッドシートの書き出し
//	Logger      : ロガー
//	Now         : 現在時刻(nilの場合はtime.Now)
type LeagueReportArgs struct {
	InputPath   string
	ResultsPath string
	DataDir     string
	Concurrency int
	Source      repository.LeagueSource
	Store       repository.LeagueResultRepository
	Weather     repository.WeatherProvider
	Exporters   []repository.ReportExporter
	Logger      logger.AppLogger
	Now         func() time.Time
}

// ReportEntryは1リーグ分のレポート出力の結果です。
type ReportEntry struct {
	Country            string
	LeagueName         string
	Status             model.LeagueRunStatus
	Folder             string
	Files              []string
	TemperatureCelsius float64
	Detail             string
}

// LeagueReportUseCaseは、順位表に天気を付けてリーグごとのファイルに書き出します。
type LeagueReportUseCase struct {
	inputPath   string
	resultsPath string
	dataDir     string
	concurrency int
	source      repository.LeagueSource
	store       repository.LeagueResultRepository
	weather     repository.WeatherProvider
	exporters   []repository.ReportExporter
	logger      logger.AppLogger
	now         func() time.Time
}

func NewLeagueReportUseCase(args LeagueReportArgs) *LeagueReportUseCase {
	now := args.Now
	if now == nil {
		now = time.Now
	}
	concurrency := args.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &LeagueReportUseCase{
		inputPath:   args.InputPath,
		resultsPath: args.ResultsPath,
		dataDir:     args.DataDir,
		concurrency: concurrency,
		source:      args.Source,
		store:       args.Store,
		weather:     args.Weather,
		exporters:   args.Exporters,
		logger:      args.Logger,
		now:         now,
	}
}

type weatherLookup struct {
	weather model.Weather
	err     error
}

// Runは、全リーグのレポートを出力します。
// 座標が無いリーグや天気の取得に失敗したリーグは警告を出してスキップします。
//
// args:
//
//	ctx : コンテキスト
//
// return:
//
//	[]ReportEntry : 結果の順位表と同じ順序の出力結果
//	error         : 入力の読み込みに失敗した場合やキャンセルされた場合のエラー
func (u *LeagueReportUseCase) Run(ctx context.Context) ([]ReportEntry, error) {
	descriptors, err := u.source.Load(u.inputPath)
	if err != nil {
		u.logger.Error("入力ファイルの読み込みに失敗しました", "path", u.inputPath, "error", err)
		return nil, err
	}
	results, err := u.store.Load(ctx, u.resultsPath)
	if err != nil {
		u.logger.Error("順位表の読み込みに失敗しました", "path", u.resultsPath, "error", err)
		return nil, fmt.Errorf("順位表の読み込みに失敗しました: %w", err)
	}

	coordinates := make(map[string]model.LeagueDescriptor, len(descriptors))
	for _, d := range descriptors {
		if _, exists := coordinates[d.LeagueName]; !exists && d.HasCoordinates() {
			coordinates[d.LeagueName] = d
		}
	}

	lookups, err := u.fetchWeather(ctx, results, coordinates)
	if err != nil {
		return nil, err
	}

	entries := make([]ReportEntry, 0, len(results))
	for i, result := range results {
		if err := ctx.Err(); err != nil {
			return entries, err
		}
		entry := ReportEntry{Country: result.Country, LeagueName: result.LeagueName}

		if result.LeagueName == "" {
			entry.Status = model.LeagueRunStatusSkipped
			entry.Detail = "leagueNameが空です"
			entries = append(entries, entry)
			continue
		}
		d, ok := coordinates[result.LeagueName]
		if !ok {
			u.logger.Warn("座標が見つからないためスキップします", "league", result.LeagueName)
			entry.Status = model.LeagueRunStatusSkipped
			entry.Detail = "座標がありません"
			entries = append(entries, entry)
			continue
		}
		if lookups[i].err != nil {
			u.logger.Warn("天気を取得できなかったためスキップします", "league", result.LeagueName, "error", lookups[i].err)
			entry.Status = model.LeagueRunStatusSkipped
			entry.Detail = lookups[i].err.Error()
			entries = append(entries, entry)
			continue
		}

		league := model.LeagueDescriptor{
			Country:    result.Country,
			LeagueName: result.LeagueName,
			Latitude:   d.Latitude,
			Longitude:  d.Longitude,
		}
		entries = append(entries, u.writeLeague(league, result.Table, lookups[i].weather))
	}

	u.logger.Info("レポートの出力が完了しました", "leagues", len(entries))
	return entries, nil
}

// fetchWeatherは、座標のあるリーグの天気を並行に取得します。結果はresultsと同じ添字に格納します。
func (u *LeagueReportUseCase) fetchWeather(ctx context.Context, results []model.LeagueResult, coordinates map[string]model.LeagueDescriptor) ([]weatherLookup, error) {
	lookups := make([]weatherLookup, len(results))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)

	for i, result := range results {
		d, ok := coordinates[result.LeagueName]
		if result.LeagueName == "" || !ok {
			continue
		}
		g.Go(func() error {
			w, err := u.weather.Fetch(gctx, *d.Latitude, *d.Longitude)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				lookups[i] = weatherLookup{err: err}
				return nil
			}
			lookups[i] = weatherLookup{weather: w}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lookups, nil
}

// writeLeagueは、リーグ用のフォルダにmeteo.jsonとスプレッドシートを書き出します。
func (u *LeagueReportUseCase) writeLeague(league model.LeagueDescriptor, table model.StandingsTable, weather model.Weather) ReportEntry {
	now := u.now()
	entry := ReportEntry{
		Country:            league.Country,
		LeagueName:         league.LeagueName,
		TemperatureCelsius: weather.CurrentWeather.TemperatureCelsius,
	}
	log := u.logger.With("league", league.LeagueName)

	folder := filepath.Join(u.dataDir, fmt.Sprintf("%s %s", now.Format(constants.LeagueDirTimeLayout), model.SafeFileName(league.LeagueName)))
	entry.Folder = folder

	meteoPath := filepath.Join(folder, constants.MeteoFileName)
	// meteo.jsonに失敗してもスプレッドシートは書き出す
	if err := infra.WriteJSONFile(meteoPath, weather); err != nil {
		log.Error("天気データの保存に失敗しました", "path", meteoPath, "error", err)
		entry.Status = model.LeagueRunStatusFailed
		entry.Detail = err.Error()
	} else {
		entry.Files = append(entry.Files, meteoPath)
	}

	sheet := repository.ReportSheet{Date: now, League: league, Table: table, Weather: weather}
	for _, exporter := range u.exporters {
		path, err := exporter.Export(sheet, folder)
		if err != nil {
			log.Error("スプレッドシートの出力に失敗しました", "format", exporter.Format(), "error", err)
			entry.Status = model.LeagueRunStatusFailed
			entry.Detail = err.Error()
			continue
		}
		entry.Files = append(entry.Files, path)
	}

	log.Info("天気",
		"temperature_celsius", weather.CurrentWeather.TemperatureCelsius,
		"temperature_fahrenheit", weather.CurrentWeather.TemperatureFahrenheit,
		"measured_at", weather.CurrentWeather.TimeUTC,
	)
	if len(table) == 0 {
		log.Info("順位表のデータがありません")
	}
	for i := 0; i < constants.TopRowsToLog && i < len(table); i++ {
		log.Info("順位表", "rank", i+1, "row", rowSummary(table[i]))
	}

	if entry.Status == "" {
		entry.Status = model.LeagueRunStatusSuccess
		if len(table) == 0 {
			entry.Status = model.LeagueRunStatusEmpty
		}
	}
	return entry
}

func rowSummary(row model.StandingsRow) string {
	b, err := row.MarshalJSON()
	if err != nil {
		return fmt.Sprint([]model.Cell(row))
	}
	return string(b)
}
