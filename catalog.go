package medialib

// Media lookups and flat listings.

// Media returns a media entry with its files, tracks and extra payload.
func (ml *MediaLibrary) Media(id int64) (*Media, error) {
	return ml.repo.GetMedia(id)
}

// DeleteMedia removes a media entry, its files, tracks, labels, playlist
// entries and preferences, and refreshes the aggregates it contributed to.
func (ml *MediaLibrary) DeleteMedia(id int64) error {
	return ml.repo.DeleteMedia(id)
}

// Videos lists video media.
func (ml *MediaLibrary) Videos(params QueryParams) ([]Media, error) {
	return ml.repo.ListVideos(params)
}

// CountVideos counts video media matching the pattern.
func (ml *MediaLibrary) CountVideos(params QueryParams) (int64, error) {
	return ml.repo.CountVideos(params)
}

// Audios lists audio media.
func (ml *MediaLibrary) Audios(params QueryParams) ([]Media, error) {
	return ml.repo.ListAudios(params)
}

// CountAudios counts audio media matching the pattern.
func (ml *MediaLibrary) CountAudios(params QueryParams) (int64, error) {
	return ml.repo.CountAudios(params)
}

// Albums and their members.

func (ml *MediaLibrary) Album(id int64) (*Album, error) {
	return ml.repo.GetAlbum(id)
}

func (ml *MediaLibrary) Albums(params QueryParams) ([]Album, error) {
	return ml.repo.ListAlbums(params)
}

func (ml *MediaLibrary) CountAlbums(params QueryParams) (int64, error) {
	return ml.repo.CountAlbums(params)
}

// AlbumTracks lists an album's tracks, by default in disc and track number
// order.
func (ml *MediaLibrary) AlbumTracks(albumID int64, params QueryParams) ([]Media, error) {
	return ml.repo.ListTracksOfAlbum(albumID, params)
}

func (ml *MediaLibrary) CountAlbumTracks(albumID int64, params QueryParams) (int64, error) {
	return ml.repo.CountTracksOfAlbum(albumID, params)
}

// AlbumArtists lists the distinct artists credited on an album.
func (ml *MediaLibrary) AlbumArtists(albumID int64, params QueryParams) ([]Artist, error) {
	return ml.repo.ListArtistsOfAlbum(albumID, params)
}

func (ml *MediaLibrary) CountAlbumArtists(albumID int64, params QueryParams) (int64, error) {
	return ml.repo.CountArtistsOfAlbum(albumID, params)
}

// Artists and their members.

func (ml *MediaLibrary) Artist(id int64) (*Artist, error) {
	return ml.repo.GetArtist(id)
}

// Artists lists artists. With includeAll false only artists credited with
// at least one album are returned.
func (ml *MediaLibrary) Artists(params QueryParams, includeAll bool) ([]Artist, error) {
	return ml.repo.ListArtists(params, includeAll)
}

func (ml *MediaLibrary) CountArtists(params QueryParams, includeAll bool) (int64, error) {
	return ml.repo.CountArtists(params, includeAll)
}

func (ml *MediaLibrary) ArtistAlbums(artistID int64, params QueryParams) ([]Album, error) {
	return ml.repo.ListAlbumsOfArtist(artistID, params)
}

func (ml *MediaLibrary) CountArtistAlbums(artistID int64, params QueryParams) (int64, error) {
	return ml.repo.CountAlbumsOfArtist(artistID, params)
}

func (ml *MediaLibrary) ArtistTracks(artistID int64, params QueryParams) ([]Media, error) {
	return ml.repo.ListTracksOfArtist(artistID, params)
}

func (ml *MediaLibrary) CountArtistTracks(artistID int64, params QueryParams) (int64, error) {
	return ml.repo.CountTracksOfArtist(artistID, params)
}

// Genres and their members.

func (ml *MediaLibrary) Genre(id int64) (*Genre, error) {
	return ml.repo.GetGenre(id)
}

func (ml *MediaLibrary) Genres(params QueryParams) ([]Genre, error) {
	return ml.repo.ListGenres(params)
}

func (ml *MediaLibrary) CountGenres(params QueryParams) (int64, error) {
	return ml.repo.CountGenres(params)
}

func (ml *MediaLibrary) GenreTracks(genreID int64, params QueryParams) ([]Media, error) {
	return ml.repo.ListTracksOfGenre(genreID, params)
}

func (ml *MediaLibrary) CountGenreTracks(genreID int64, params QueryParams) (int64, error) {
	return ml.repo.CountTracksOfGenre(genreID, params)
}

func (ml *MediaLibrary) GenreAlbums(genreID int64, params QueryParams) ([]Album, error) {
	return ml.repo.ListAlbumsOfGenre(genreID, params)
}

func (ml *MediaLibrary) CountGenreAlbums(genreID int64, params QueryParams) (int64, error) {
	return ml.repo.CountAlbumsOfGenre(genreID, params)
}

func (ml *MediaLibrary) GenreArtists(genreID int64, params QueryParams) ([]Artist, error) {
	return ml.repo.ListArtistsOfGenre(genreID, params)
}

func (ml *MediaLibrary) CountGenreArtists(genreID int64, params QueryParams) (int64, error) {
	return ml.repo.CountArtistsOfGenre(genreID, params)
}

// Shows and their episodes.

func (ml *MediaLibrary) Show(id int64) (*Show, error) {
	return ml.repo.GetShow(id)
}

func (ml *MediaLibrary) Shows(params QueryParams) ([]Show, error) {
	return ml.repo.ListShows(params)
}

func (ml *MediaLibrary) CountShows(params QueryParams) (int64, error) {
	return ml.repo.CountShows(params)
}

// ShowEpisodes lists a show's episodes, by default in season and episode
// order.
func (ml *MediaLibrary) ShowEpisodes(showID int64, params QueryParams) ([]Media, error) {
	return ml.repo.ListEpisodesOfShow(showID, params)
}

func (ml *MediaLibrary) CountShowEpisodes(showID int64, params QueryParams) (int64, error) {
	return ml.repo.CountEpisodesOfShow(showID, params)
}

// Playlists.

func (ml *MediaLibrary) Playlist(id int64) (*Playlist, error) {
	return ml.repo.GetPlaylist(id)
}

func (ml *MediaLibrary) Playlists(params QueryParams) ([]Playlist, error) {
	return ml.repo.ListPlaylists(params)
}

func (ml *MediaLibrary) CountPlaylists(params QueryParams) (int64, error) {
	return ml.repo.CountPlaylists(params)
}

func (ml *MediaLibrary) CreatePlaylist(name string) (*Playlist, error) {
	return ml.repo.CreatePlaylist(name)
}

func (ml *MediaLibrary) DeletePlaylist(id int64) error {
	return ml.repo.DeletePlaylist(id)
}

// PlaylistMedia lists a playlist's media in position order.
func (ml *MediaLibrary) PlaylistMedia(playlistID int64, params QueryParams) ([]Media, error) {
	return ml.repo.ListMediaOfPlaylist(playlistID, params)
}

func (ml *MediaLibrary) CountPlaylistMedia(playlistID int64, params QueryParams) (int64, error) {
	return ml.repo.CountMediaOfPlaylist(playlistID, params)
}

// PlaylistAppend adds a media entry at the end of a playlist.
func (ml *MediaLibrary) PlaylistAppend(playlistID, mediaID int64) error {
	return ml.repo.AppendToPlaylist(playlistID, mediaID)
}

// PlaylistInsert adds a media entry at a position, shifting later entries.
func (ml *MediaLibrary) PlaylistInsert(playlistID, mediaID int64, position int32) error {
	return ml.repo.InsertIntoPlaylist(playlistID, mediaID, position)
}

// PlaylistRemove removes the entry at a position and compacts the sequence.
func (ml *MediaLibrary) PlaylistRemove(playlistID int64, position int32) error {
	return ml.repo.RemoveFromPlaylist(playlistID, position)
}

// Labels.

// CreateLabel returns the label with the given name, creating it on first
// use.
func (ml *MediaLibrary) CreateLabel(name string) (*Label, error) {
	return ml.repo.GetOrCreateLabel(name)
}

func (ml *MediaLibrary) DeleteLabel(labelID int64) error {
	return ml.repo.DeleteLabel(labelID)
}

func (ml *MediaLibrary) AttachLabel(mediaID, labelID int64) error {
	return ml.repo.AttachLabel(mediaID, labelID)
}

func (ml *MediaLibrary) DetachLabel(mediaID, labelID int64) error {
	return ml.repo.DetachLabel(mediaID, labelID)
}

func (ml *MediaLibrary) MediaLabels(mediaID int64) ([]Label, error) {
	return ml.repo.ListLabelsOfMedia(mediaID)
}

func (ml *MediaLibrary) CountMediaLabels(mediaID int64) (int64, error) {
	return ml.repo.CountLabelsOfMedia(mediaID)
}

func (ml *MediaLibrary) LabelMedia(labelID int64, params QueryParams) ([]Media, error) {
	return ml.repo.ListMediaOfLabel(labelID, params)
}

// Playback history and preferences.

// History lists played local media, most recent first.
func (ml *MediaLibrary) History(params QueryParams) ([]Media, error) {
	return ml.repo.ListHistory(params)
}

// StreamHistory lists played streams, most recent first.
func (ml *MediaLibrary) StreamHistory(params QueryParams) ([]Media, error) {
	return ml.repo.ListStreamHistory(params)
}

// IncreasePlayCount bumps a media entry's play count and stamps it as the
// most recently played.
func (ml *MediaLibrary) IncreasePlayCount(mediaID int64) error {
	return ml.repo.IncreasePlayCount(mediaID)
}

// ClearHistory resets play counts and last-played stamps. It does not fail:
// a storage error is logged and the history is left as it was.
func (ml *MediaLibrary) ClearHistory() {
	if err := ml.repo.ClearHistory(); err != nil {
		ml.logger.Error().Err(err).Msg("Failed to clear playback history")
	}
}

// PlaybackPref returns a stored preference value; the boolean is false when
// the key was never set.
func (ml *MediaLibrary) PlaybackPref(mediaID int64, key PrefKey) (string, bool, error) {
	return ml.repo.GetPlaybackPref(mediaID, key)
}

// SetPlaybackPref stores a preference value, replacing any previous one.
func (ml *MediaLibrary) SetPlaybackPref(mediaID int64, key PrefKey, value string) error {
	return ml.repo.SetPlaybackPref(mediaID, key, value)
}

// UnsetPlaybackPref removes a preference; unset keys are a no-op.
func (ml *MediaLibrary) UnsetPlaybackPref(mediaID int64, key PrefKey) error {
	return ml.repo.UnsetPlaybackPref(mediaID, key)
}

// SetMediaFavorite flags or unflags a media entry as a favorite.
func (ml *MediaLibrary) SetMediaFavorite(mediaID int64, favorite bool) error {
	return ml.repo.SetMediaFavorite(mediaID, favorite)
}

// SetMediaThumbnail records the artwork location for a media entry.
func (ml *MediaLibrary) SetMediaThumbnail(mediaID int64, mrl string) error {
	return ml.repo.SetMediaThumbnail(mediaID, mrl)
}

// Out-of-tree media.

// AddExternalMedia registers a media entry for a location no discovery root
// covers.
func (ml *MediaLibrary) AddExternalMedia(mrl, title string) (*Media, error) {
	return ml.repo.AddExternalMedia(mrl, title)
}

// AddStream registers a network stream so its history and preferences
// persist.
func (ml *MediaLibrary) AddStream(mrl string) (*Media, error) {
	return ml.repo.AddStream(mrl)
}

// AttachExternalFile links a subtitle or soundtrack file to a media entry.
func (ml *MediaLibrary) AttachExternalFile(mediaID int64, mrl string, fileType FileType) error {
	return ml.repo.AttachExternalFile(mediaID, mrl, fileType)
}

// Discovery roots and background control. The folder verbs do not fail:
// storage errors are logged and repaired by the consistency pass.

// FolderInfo is the caller-visible state of a discovery root. MRL is empty
// for roots in the removed state.
type FolderInfo struct {
	MRL    string
	Banned bool
}

// AddFolder registers a folder for discovery and queues a crawl. Re-adding
// a removed folder restores it; a surviving ban keeps it out of the crawl.
func (ml *MediaLibrary) AddFolder(mrl string) {
	ml.disc.AddFolder(mrl)
}

// RemoveFolder withdraws a folder and deletes the media beneath it. The
// folder's banned flag survives for a later re-add.
func (ml *MediaLibrary) RemoveFolder(mrl string) {
	ml.disc.RemoveFolder(mrl)
}

// BanFolder excludes a folder and deletes the media beneath it.
func (ml *MediaLibrary) BanFolder(mrl string) {
	ml.disc.BanFolder(mrl)
}

// UnbanFolder lifts a ban and queues a crawl when the folder is present.
func (ml *MediaLibrary) UnbanFolder(mrl string) {
	ml.disc.UnbanFolder(mrl)
}

// Folders lists discovery roots, banned ones included. A removed root whose
// ban still stands appears with an empty MRL; removed unbanned roots are
// omitted.
func (ml *MediaLibrary) Folders() ([]FolderInfo, error) {
	eps, err := ml.repo.ListEntrypoints()
	if err != nil {
		return nil, err
	}
	infos := make([]FolderInfo, 0, len(eps))
	for _, ep := range eps {
		switch {
		case ep.Present:
			infos = append(infos, FolderInfo{MRL: ep.MRL, Banned: ep.Banned})
		case ep.Banned:
			infos = append(infos, FolderInfo{MRL: "", Banned: true})
		}
	}
	return infos, nil
}

// Reload queues a fresh crawl of every present, unbanned root.
func (ml *MediaLibrary) Reload() {
	ml.disc.Reload()
}

// PauseBackground halts background discovery at the next transaction
// boundary.
func (ml *MediaLibrary) PauseBackground() {
	ml.disc.Pause()
}

// ResumeBackground restarts paused background discovery.
func (ml *MediaLibrary) ResumeBackground() {
	ml.disc.Resume()
}
