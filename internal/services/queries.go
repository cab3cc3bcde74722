package services

import (
	"medialib/internal/models"
	"medialib/internal/query"
)

// Sort column tables for each listing. Every ordering ends with an id
// tie-break so equal keys still produce a stable page sequence.

var mediaSortColumns = query.Columns{
	query.SortAlpha:                "media.title_sort",
	query.SortDuration:             "media.duration",
	query.SortInsertionDate:        "media.created_at",
	query.SortLastModificationDate: "media.updated_at",
	query.SortReleaseDate:          "media.year",
	query.SortFileSize:             "media.file_size",
	query.SortFilename:             "media.filename",
	query.SortPlayCount:            "media.play_count",
}

var albumSortColumns = query.Columns{
	query.SortAlpha:       "albums.title_sort",
	query.SortReleaseDate: "albums.year",
	query.SortDuration:    "albums.duration",
	query.SortArtist:      "albums.artist_name",
}

var artistSortColumns = query.Columns{
	query.SortAlpha: "artists.name_sort",
}

var genreSortColumns = query.Columns{
	query.SortAlpha: "genres.name_sort",
}

var showSortColumns = query.Columns{
	query.SortAlpha:       "shows.name_sort",
	query.SortReleaseDate: "shows.release_year",
}

var playlistSortColumns = query.Columns{
	query.SortAlpha:         "playlists.name_sort",
	query.SortInsertionDate: "playlists.created_at",
}

var albumTrackSortColumns = query.Columns{
	query.SortAlpha:       "media.title_sort",
	query.SortDuration:    "media.duration",
	query.SortReleaseDate: "media.year",
	query.SortTrackNumber: "album_tracks.disc_number, album_tracks.track_number",
}

var episodeSortColumns = query.Columns{
	query.SortAlpha:       "media.title_sort",
	query.SortDuration:    "media.duration",
	query.SortReleaseDate: "media.year",
}

// Flat listings

// ListVideos returns video media matching the parameters.
func (r *Repository) ListVideos(params query.Params) ([]models.Media, error) {
	return r.listMediaOfType(params, models.MediaTypeVideo)
}

// CountVideos returns the number of video media matching the pattern.
func (r *Repository) CountVideos(params query.Params) (int64, error) {
	return r.countMediaOfType(params, models.MediaTypeVideo)
}

// ListAudios returns audio media matching the parameters.
func (r *Repository) ListAudios(params query.Params) ([]models.Media, error) {
	return r.listMediaOfType(params, models.MediaTypeAudio)
}

// CountAudios returns the number of audio media matching the pattern.
func (r *Repository) CountAudios(params query.Params) (int64, error) {
	return r.countMediaOfType(params, models.MediaTypeAudio)
}

func (r *Repository) listMediaOfType(params query.Params, t models.MediaType) ([]models.Media, error) {
	var media []models.Media
	db := r.db.Model(&models.Media{}).Where("media.type = ?", t)
	db = params.Apply(db, "media.title_sort", mediaSortColumns, "media.title_sort", "media.id")
	if err := db.Find(&media).Error; err != nil {
		return nil, wrapErr(err)
	}
	return media, nil
}

func (r *Repository) countMediaOfType(params query.Params, t models.MediaType) (int64, error) {
	var count int64
	db := r.db.Model(&models.Media{}).Where("media.type = ?", t)
	db = params.Counted(db, "media.title_sort")
	if err := db.Count(&count).Error; err != nil {
		return 0, wrapErr(err)
	}
	return count, nil
}

// ListAlbums returns albums matching the parameters.
func (r *Repository) ListAlbums(params query.Params) ([]models.Album, error) {
	var albums []models.Album
	db := r.db.Model(&models.Album{})
	db = params.Apply(db, "albums.title_sort", albumSortColumns, "albums.title_sort", "albums.id")
	if err := db.Find(&albums).Error; err != nil {
		return nil, wrapErr(err)
	}
	return albums, nil
}

// CountAlbums returns the number of albums matching the pattern.
func (r *Repository) CountAlbums(params query.Params) (int64, error) {
	var count int64
	db := params.Counted(r.db.Model(&models.Album{}), "albums.title_sort")
	if err := db.Count(&count).Error; err != nil {
		return 0, wrapErr(err)
	}
	return count, nil
}

// ListArtists returns artists matching the parameters. With includeAll false
// only artists credited with at least one album are returned.
func (r *Repository) ListArtists(params query.Params, includeAll bool) ([]models.Artist, error) {
	var artists []models.Artist
	db := r.db.Model(&models.Artist{})
	if !includeAll {
		db = db.Where("artists.album_count > 0")
	}
	db = params.Apply(db, "artists.name_sort", artistSortColumns, "artists.name_sort", "artists.id")
	if err := db.Find(&artists).Error; err != nil {
		return nil, wrapErr(err)
	}
	return artists, nil
}

// CountArtists returns the number of artists matching the pattern.
func (r *Repository) CountArtists(params query.Params, includeAll bool) (int64, error) {
	var count int64
	db := r.db.Model(&models.Artist{})
	if !includeAll {
		db = db.Where("artists.album_count > 0")
	}
	db = params.Counted(db, "artists.name_sort")
	if err := db.Count(&count).Error; err != nil {
		return 0, wrapErr(err)
	}
	return count, nil
}

// ListGenres returns genres matching the parameters.
func (r *Repository) ListGenres(params query.Params) ([]models.Genre, error) {
	var genres []models.Genre
	db := params.Apply(r.db.Model(&models.Genre{}),
		"genres.name_sort", genreSortColumns, "genres.name_sort", "genres.id")
	if err := db.Find(&genres).Error; err != nil {
		return nil, wrapErr(err)
	}
	return genres, nil
}

// CountGenres returns the number of genres matching the pattern.
func (r *Repository) CountGenres(params query.Params) (int64, error) {
	var count int64
	db := params.Counted(r.db.Model(&models.Genre{}), "genres.name_sort")
	if err := db.Count(&count).Error; err != nil {
		return 0, wrapErr(err)
	}
	return count, nil
}

// ListShows returns shows matching the parameters.
func (r *Repository) ListShows(params query.Params) ([]models.Show, error) {
	var shows []models.Show
	db := params.Apply(r.db.Model(&models.Show{}),
		"shows.name_sort", showSortColumns, "shows.name_sort", "shows.id")
	if err := db.Find(&shows).Error; err != nil {
		return nil, wrapErr(err)
	}
	return shows, nil
}

// CountShows returns the number of shows matching the pattern.
func (r *Repository) CountShows(params query.Params) (int64, error) {
	var count int64
	db := params.Counted(r.db.Model(&models.Show{}), "shows.name_sort")
	if err := db.Count(&count).Error; err != nil {
		return 0, wrapErr(err)
	}
	return count, nil
}

// ListPlaylists returns playlists matching the parameters.
func (r *Repository) ListPlaylists(params query.Params) ([]models.Playlist, error) {
	var playlists []models.Playlist
	db := params.Apply(r.db.Model(&models.Playlist{}),
		"playlists.name_sort", playlistSortColumns, "playlists.name_sort", "playlists.id")
	if err := db.Find(&playlists).Error; err != nil {
		return nil, wrapErr(err)
	}
	return playlists, nil
}

// CountPlaylists returns the number of playlists matching the pattern.
func (r *Repository) CountPlaylists(params query.Params) (int64, error) {
	var count int64
	db := params.Counted(r.db.Model(&models.Playlist{}), "playlists.name_sort")
	if err := db.Count(&count).Error; err != nil {
		return 0, wrapErr(err)
	}
	return count, nil
}

// History listings. Ordering is fixed to most recently played first; the
// pattern and window parameters still apply.

// ListHistory returns played local media, most recent first.
func (r *Repository) ListHistory(params query.Params) ([]models.Media, error) {
	var media []models.Media
	db := r.db.Model(&models.Media{}).
		Where("media.last_played_at IS NOT NULL").
		Where("media.type <> ?", models.MediaTypeStream)
	db = params.PatternClause(db, "media.title_sort")
	db = params.Window(db.Order("media.last_played_at DESC, media.id ASC"))
	if err := db.Find(&media).Error; err != nil {
		return nil, wrapErr(err)
	}
	return media, nil
}

// ListStreamHistory returns played streams, most recent first.
func (r *Repository) ListStreamHistory(params query.Params) ([]models.Media, error) {
	var media []models.Media
	db := r.db.Model(&models.Media{}).
		Where("media.last_played_at IS NOT NULL").
		Where("media.type = ?", models.MediaTypeStream)
	db = params.PatternClause(db, "media.title_sort")
	db = params.Window(db.Order("media.last_played_at DESC, media.id ASC"))
	if err := db.Find(&media).Error; err != nil {
		return nil, wrapErr(err)
	}
	return media, nil
}

// Parent-scoped listings. The parent must exist; a parent with no children
// yields an empty slice, not an error.

// ListTracksOfAlbum returns an album's tracks, by default in disc/track
// number order.
func (r *Repository) ListTracksOfAlbum(albumID int64, params query.Params) ([]models.Media, error) {
	if err := r.requireRow(&models.Album{}, albumID); err != nil {
		return nil, err
	}
	var media []models.Media
	db := r.db.Model(&models.Media{}).
		Joins("JOIN album_tracks ON album_tracks.media_id = media.id").
		Where("album_tracks.album_id = ?", albumID)
	db = params.Apply(db, "media.title_sort", albumTrackSortColumns,
		"album_tracks.disc_number, album_tracks.track_number", "media.id")
	if err := db.Find(&media).Error; err != nil {
		return nil, wrapErr(err)
	}
	return media, nil
}

// CountTracksOfAlbum returns the number of tracks on an album.
func (r *Repository) CountTracksOfAlbum(albumID int64, params query.Params) (int64, error) {
	if err := r.requireRow(&models.Album{}, albumID); err != nil {
		return 0, err
	}
	var count int64
	db := r.db.Model(&models.AlbumTrack{}).
		Joins("JOIN media ON media.id = album_tracks.media_id").
		Where("album_tracks.album_id = ?", albumID)
	db = params.Counted(db, "media.title_sort")
	if err := db.Count(&count).Error; err != nil {
		return 0, wrapErr(err)
	}
	return count, nil
}

// ListArtistsOfAlbum returns the distinct artists credited on an album's
// tracks.
func (r *Repository) ListArtistsOfAlbum(albumID int64, params query.Params) ([]models.Artist, error) {
	if err := r.requireRow(&models.Album{}, albumID); err != nil {
		return nil, err
	}
	var artists []models.Artist
	db := r.db.Model(&models.Artist{}).
		Joins("JOIN album_tracks ON album_tracks.artist_id = artists.id").
		Where("album_tracks.album_id = ?", albumID).
		Distinct("artists.*")
	db = params.Apply(db, "artists.name_sort", artistSortColumns, "artists.name_sort", "artists.id")
	if err := db.Find(&artists).Error; err != nil {
		return nil, wrapErr(err)
	}
	return artists, nil
}

// CountArtistsOfAlbum returns the number of distinct artists credited on an
// album's tracks.
func (r *Repository) CountArtistsOfAlbum(albumID int64, params query.Params) (int64, error) {
	if err := r.requireRow(&models.Album{}, albumID); err != nil {
		return 0, err
	}
	var count int64
	db := r.db.Model(&models.Artist{}).
		Joins("JOIN album_tracks ON album_tracks.artist_id = artists.id").
		Where("album_tracks.album_id = ?", albumID).
		Distinct("artists.id")
	db = params.Counted(db, "artists.name_sort")
	if err := db.Count(&count).Error; err != nil {
		return 0, wrapErr(err)
	}
	return count, nil
}

// ListAlbumsOfArtist returns the albums credited to an artist.
func (r *Repository) ListAlbumsOfArtist(artistID int64, params query.Params) ([]models.Album, error) {
	if err := r.requireRow(&models.Artist{}, artistID); err != nil {
		return nil, err
	}
	var albums []models.Album
	db := r.db.Model(&models.Album{}).Where("albums.artist_id = ?", artistID)
	db = params.Apply(db, "albums.title_sort", albumSortColumns, "albums.year", "albums.id")
	if err := db.Find(&albums).Error; err != nil {
		return nil, wrapErr(err)
	}
	return albums, nil
}

// CountAlbumsOfArtist returns the number of albums credited to an artist.
func (r *Repository) CountAlbumsOfArtist(artistID int64, params query.Params) (int64, error) {
	if err := r.requireRow(&models.Artist{}, artistID); err != nil {
		return 0, err
	}
	var count int64
	db := r.db.Model(&models.Album{}).Where("albums.artist_id = ?", artistID)
	db = params.Counted(db, "albums.title_sort")
	if err := db.Count(&count).Error; err != nil {
		return 0, wrapErr(err)
	}
	return count, nil
}

// ListTracksOfArtist returns the tracks credited to an artist.
func (r *Repository) ListTracksOfArtist(artistID int64, params query.Params) ([]models.Media, error) {
	if err := r.requireRow(&models.Artist{}, artistID); err != nil {
		return nil, err
	}
	var media []models.Media
	db := r.db.Model(&models.Media{}).
		Joins("JOIN album_tracks ON album_tracks.media_id = media.id").
		Where("album_tracks.artist_id = ?", artistID)
	db = params.Apply(db, "media.title_sort", albumTrackSortColumns, "media.title_sort", "media.id")
	if err := db.Find(&media).Error; err != nil {
		return nil, wrapErr(err)
	}
	return media, nil
}

// CountTracksOfArtist returns the number of tracks credited to an artist.
func (r *Repository) CountTracksOfArtist(artistID int64, params query.Params) (int64, error) {
	if err := r.requireRow(&models.Artist{}, artistID); err != nil {
		return 0, err
	}
	var count int64
	db := r.db.Model(&models.AlbumTrack{}).
		Joins("JOIN media ON media.id = album_tracks.media_id").
		Where("album_tracks.artist_id = ?", artistID)
	db = params.Counted(db, "media.title_sort")
	if err := db.Count(&count).Error; err != nil {
		return 0, wrapErr(err)
	}
	return count, nil
}

// ListTracksOfGenre returns the tracks tagged with a genre.
func (r *Repository) ListTracksOfGenre(genreID int64, params query.Params) ([]models.Media, error) {
	if err := r.requireRow(&models.Genre{}, genreID); err != nil {
		return nil, err
	}
	var media []models.Media
	db := r.db.Model(&models.Media{}).
		Joins("JOIN album_tracks ON album_tracks.media_id = media.id").
		Where("album_tracks.genre_id = ?", genreID)
	db = params.Apply(db, "media.title_sort", albumTrackSortColumns, "media.title_sort", "media.id")
	if err := db.Find(&media).Error; err != nil {
		return nil, wrapErr(err)
	}
	return media, nil
}

// CountTracksOfGenre returns the number of tracks tagged with a genre.
func (r *Repository) CountTracksOfGenre(genreID int64, params query.Params) (int64, error) {
	if err := r.requireRow(&models.Genre{}, genreID); err != nil {
		return 0, err
	}
	var count int64
	db := r.db.Model(&models.AlbumTrack{}).
		Joins("JOIN media ON media.id = album_tracks.media_id").
		Where("album_tracks.genre_id = ?", genreID)
	db = params.Counted(db, "media.title_sort")
	if err := db.Count(&count).Error; err != nil {
		return 0, wrapErr(err)
	}
	return count, nil
}

// ListAlbumsOfGenre returns the distinct albums holding at least one track
// of a genre.
func (r *Repository) ListAlbumsOfGenre(genreID int64, params query.Params) ([]models.Album, error) {
	if err := r.requireRow(&models.Genre{}, genreID); err != nil {
		return nil, err
	}
	var albums []models.Album
	db := r.db.Model(&models.Album{}).
		Joins("JOIN album_tracks ON album_tracks.album_id = albums.id").
		Where("album_tracks.genre_id = ?", genreID).
		Distinct("albums.*")
	db = params.Apply(db, "albums.title_sort", albumSortColumns, "albums.title_sort", "albums.id")
	if err := db.Find(&albums).Error; err != nil {
		return nil, wrapErr(err)
	}
	return albums, nil
}

// CountAlbumsOfGenre returns the number of distinct albums holding at least
// one track of a genre.
func (r *Repository) CountAlbumsOfGenre(genreID int64, params query.Params) (int64, error) {
	if err := r.requireRow(&models.Genre{}, genreID); err != nil {
		return 0, err
	}
	var count int64
	db := r.db.Model(&models.Album{}).
		Joins("JOIN album_tracks ON album_tracks.album_id = albums.id").
		Where("album_tracks.genre_id = ?", genreID).
		Distinct("albums.id")
	db = params.Counted(db, "albums.title_sort")
	if err := db.Count(&count).Error; err != nil {
		return 0, wrapErr(err)
	}
	return count, nil
}

// ListArtistsOfGenre returns the distinct artists with at least one track of
// a genre.
func (r *Repository) ListArtistsOfGenre(genreID int64, params query.Params) ([]models.Artist, error) {
	if err := r.requireRow(&models.Genre{}, genreID); err != nil {
		return nil, err
	}
	var artists []models.Artist
	db := r.db.Model(&models.Artist{}).
		Joins("JOIN album_tracks ON album_tracks.artist_id = artists.id").
		Where("album_tracks.genre_id = ?", genreID).
		Distinct("artists.*")
	db = params.Apply(db, "artists.name_sort", artistSortColumns, "artists.name_sort", "artists.id")
	if err := db.Find(&artists).Error; err != nil {
		return nil, wrapErr(err)
	}
	return artists, nil
}

// CountArtistsOfGenre returns the number of distinct artists with at least
// one track of a genre.
func (r *Repository) CountArtistsOfGenre(genreID int64, params query.Params) (int64, error) {
	if err := r.requireRow(&models.Genre{}, genreID); err != nil {
		return 0, err
	}
	var count int64
	db := r.db.Model(&models.Artist{}).
		Joins("JOIN album_tracks ON album_tracks.artist_id = artists.id").
		Where("album_tracks.genre_id = ?", genreID).
		Distinct("artists.id")
	db = params.Counted(db, "artists.name_sort")
	if err := db.Count(&count).Error; err != nil {
		return 0, wrapErr(err)
	}
	return count, nil
}

// ListEpisodesOfShow returns a show's episodes, by default in season and
// episode order.
func (r *Repository) ListEpisodesOfShow(showID int64, params query.Params) ([]models.Media, error) {
	if err := r.requireRow(&models.Show{}, showID); err != nil {
		return nil, err
	}
	var media []models.Media
	db := r.db.Model(&models.Media{}).
		Joins("JOIN show_episodes ON show_episodes.media_id = media.id").
		Where("show_episodes.show_id = ?", showID)
	db = params.Apply(db, "media.title_sort", episodeSortColumns,
		"show_episodes.season_number, show_episodes.episode_number", "media.id")
	if err := db.Find(&media).Error; err != nil {
		return nil, wrapErr(err)
	}
	return media, nil
}

// CountEpisodesOfShow returns the number of episodes of a show.
func (r *Repository) CountEpisodesOfShow(showID int64, params query.Params) (int64, error) {
	if err := r.requireRow(&models.Show{}, showID); err != nil {
		return 0, err
	}
	var count int64
	db := r.db.Model(&models.ShowEpisode{}).
		Joins("JOIN media ON media.id = show_episodes.media_id").
		Where("show_episodes.show_id = ?", showID)
	db = params.Counted(db, "media.title_sort")
	if err := db.Count(&count).Error; err != nil {
		return 0, wrapErr(err)
	}
	return count, nil
}

// ListMediaOfPlaylist returns a playlist's media in position order.
func (r *Repository) ListMediaOfPlaylist(playlistID int64, params query.Params) ([]models.Media, error) {
	if err := r.requireRow(&models.Playlist{}, playlistID); err != nil {
		return nil, err
	}
	var media []models.Media
	db := r.db.Model(&models.Media{}).
		Joins("JOIN playlist_items ON playlist_items.media_id = media.id").
		Where("playlist_items.playlist_id = ?", playlistID)
	db = params.PatternClause(db, "media.title_sort")
	db = params.Window(db.Order("playlist_items.position ASC"))
	if err := db.Find(&media).Error; err != nil {
		return nil, wrapErr(err)
	}
	return media, nil
}

// CountMediaOfPlaylist returns the number of entries in a playlist.
func (r *Repository) CountMediaOfPlaylist(playlistID int64, params query.Params) (int64, error) {
	if err := r.requireRow(&models.Playlist{}, playlistID); err != nil {
		return 0, err
	}
	var count int64
	db := r.db.Model(&models.PlaylistItem{}).
		Joins("JOIN media ON media.id = playlist_items.media_id").
		Where("playlist_items.playlist_id = ?", playlistID)
	db = params.Counted(db, "media.title_sort")
	if err := db.Count(&count).Error; err != nil {
		return 0, wrapErr(err)
	}
	return count, nil
}

// ListLabelsOfMedia returns the labels attached to a media entry.
func (r *Repository) ListLabelsOfMedia(mediaID int64) ([]models.Label, error) {
	if err := r.requireRow(&models.Media{}, mediaID); err != nil {
		return nil, err
	}
	var labels []models.Label
	err := r.db.Model(&models.Label{}).
		Joins("JOIN media_labels ON media_labels.label_id = labels.id").
		Where("media_labels.media_id = ?", mediaID).
		Order("labels.name ASC, labels.id ASC").
		Find(&labels).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return labels, nil
}

// CountLabelsOfMedia returns the number of labels attached to a media entry.
func (r *Repository) CountLabelsOfMedia(mediaID int64) (int64, error) {
	if err := r.requireRow(&models.Media{}, mediaID); err != nil {
		return 0, err
	}
	var count int64
	err := r.db.Model(&models.Label{}).
		Joins("JOIN media_labels ON media_labels.label_id = labels.id").
		Where("media_labels.media_id = ?", mediaID).
		Count(&count).Error
	if err != nil {
		return 0, wrapErr(err)
	}
	return count, nil
}

// ListMediaOfLabel returns the media carrying a label.
func (r *Repository) ListMediaOfLabel(labelID int64, params query.Params) ([]models.Media, error) {
	if err := r.requireRow(&models.Label{}, labelID); err != nil {
		return nil, err
	}
	var media []models.Media
	db := r.db.Model(&models.Media{}).
		Joins("JOIN media_labels ON media_labels.media_id = media.id").
		Where("media_labels.label_id = ?", labelID)
	db = params.Apply(db, "media.title_sort", mediaSortColumns, "media.title_sort", "media.id")
	if err := db.Find(&media).Error; err != nil {
		return nil, wrapErr(err)
	}
	return media, nil
}

// requireRow fails with ErrNotFound when no row with the given id exists.
func (r *Repository) requireRow(model interface{}, id int64) error {
	var count int64
	if err := r.db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return wrapErr(err)
	}
	if count == 0 {
		return models.ErrNotFound
	}
	return nil
}
